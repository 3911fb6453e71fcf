package ch

import (
	"os"
	"strings"

	"bgg/internal/core/version"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo tags the connection so system.query_log shows which probe host asked
// role names the engine, e.g. "status" or "lastmodified"; blank parts read "unknown"
func BuildClientInfo(role, tag string) clickhouse.ClientInfo {
	bi := version.Info()
	host, _ := os.Hostname()

	commit := bi.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}

	type product = struct{ Name, Version string }
	return clickhouse.ClientInfo{Products: []product{
		{Name: bi.Service, Version: orUnknown(tag)},
		{Name: "role", Version: orUnknown(role)},
		{Name: "release", Version: orUnknown(bi.Version)},
		{Name: "commit", Version: orUnknown(commit)},
		{Name: "host", Version: orUnknown(host)},
	}}
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
