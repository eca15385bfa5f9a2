package model

// ChainConfig holds the per-chain RPC endpoint and contract addresses.
// Instances are immutable once the registry is built.
type ChainConfig struct {
	RPCURL        string `json:"rpc_url" mapstructure:"rpc-url"`
	V2Factory     string `json:"v2_factory" mapstructure:"v2-factory"`
	V2Router      string `json:"v2_router" mapstructure:"v2-router"`
	V3Factory     string `json:"v3_factory" mapstructure:"v3-factory"`
	V3Quoter      string `json:"v3_quoter" mapstructure:"v3-quoter"`
	WrappedNative string `json:"wrapped_native" mapstructure:"wrapped-native"`
}
