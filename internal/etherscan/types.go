package etherscan

import "encoding/json"

// envelope is the common response wrapper for every API action. Status is
// "1" for success and "0" for failure; on failure Result is usually a string
// explaining why, which is why it stays a RawMessage here.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// rpcEnvelope wraps proxy-module actions (eth_getCode and friends), which
// come back JSON-RPC shaped rather than status/message shaped.
type rpcEnvelope struct {
	Result string          `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// sourceCodeResult is one entry of the getsourcecode result array. All fields
// are strings on the wire, including booleans and integers.
type sourceCodeResult struct {
	SourceCode           string `json:"SourceCode"`
	ABI                  string `json:"ABI"`
	ContractName         string `json:"ContractName"`
	CompilerVersion      string `json:"CompilerVersion"`
	OptimizationUsed     string `json:"OptimizationUsed"`
	Runs                 string `json:"Runs"`
	ConstructorArguments string `json:"ConstructorArguments"`
	EVMVersion           string `json:"EVMVersion"`
	Library              string `json:"Library"`
	LicenseType          string `json:"LicenseType"`
	Proxy                string `json:"Proxy"`
	Implementation       string `json:"Implementation"`
	SwarmSource          string `json:"SwarmSource"`
}

// ContractRecord is the normalized result of a successful fetch. It is
// immutable after construction; the decoder reads SourceCode and the writer
// reads the metadata fields.
type ContractRecord struct {
	ChainID               int64
	Address               string
	ContractName          string
	CompilerVersion       string
	OptimizationUsed      bool
	Runs                  int
	EVMVersion            string
	Library               string
	LicenseType           string
	SourceCode            string
	Proxy                 string
	SwarmSource           string
	IsProxy               bool
	ImplementationAddress string
}
