package flags

import (
	"github.com/spf13/pflag"
)

// APIFlags holds configuration for the chat API server.
type APIFlags struct {
	ListenAddr  string
	MetricsAddr string
	EnableMCP   bool
}

func NewAPIFlags() *APIFlags {
	return &APIFlags{
		ListenAddr:  ":8080",
		MetricsAddr: ":2112",
		EnableMCP:   true,
	}
}

func (f *APIFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.ListenAddr, "listen", f.ListenAddr, "The address to serve the chat API on")
	fs.StringVar(&f.MetricsAddr, "listen-metrics", f.MetricsAddr, "The address to serve prometheus metrics on, empty to disable")
	fs.BoolVar(&f.EnableMCP, "enable-mcp", f.EnableMCP, "Serve MCP tools at /mcp")
}
