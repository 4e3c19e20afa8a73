package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the process command line.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-containers comma separated container ids created by the server
//	-request-timeout server request timeout (e.g., "30s", "1m")
//	-d database DSN
//	-data demo client data file
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-r record store address (e.g., "http://localhost:8080")
//	-adapter-timeout timeout of one remote round trip
//	-sync-interval sync validation period
//	-delete-queue-interval delete queue drain period
//	-pool-size background pool size
//	-container remote container id
//	-scope remote scope, private or public
//	-device-id device identifier
//	-ignore comma separated sync ids that are never pushed
//	-log client log file path
func ParseFlags() (*StructuredConfig, error) {
	return parseFlags(os.Args[0], os.Args[1:])
}

func parseFlags(name string, args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	var serverAddress NetAddress
	var containers, ignored string
	var cfg StructuredConfig

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&containers, "containers", "", "Comma separated container ids")
	fs.DurationVar(&cfg.Server.RequestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "Database DSN")
	fs.StringVar(&cfg.Storage.Files.DataPath, "data", "", "Demo client data file")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&cfg.App.TokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&cfg.App.TokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&cfg.App.TokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.StringVar(&cfg.Adapter.HTTPAddress, "r", "", "Record store address")
	fs.DurationVar(&cfg.Adapter.RequestTimeout, "adapter-timeout", 0, "Remote round trip timeout")
	fs.DurationVar(&cfg.Workers.SyncInterval, "sync-interval", 0, "Sync validation period")
	fs.DurationVar(&cfg.Workers.DeleteQueueInterval, "delete-queue-interval", 0, "Delete queue drain period")
	fs.IntVar(&cfg.Workers.PoolSize, "pool-size", 0, "Background pool size")
	fs.StringVar(&cfg.Sync.ContainerID, "container", "", "Remote container id")
	fs.StringVar(&cfg.Sync.Scope, "scope", "", "Remote scope: private or public")
	fs.StringVar(&cfg.Sync.DeviceID, "device-id", "", "Device identifier")
	fs.StringVar(&ignored, "ignore", "", "Comma separated ignored sync ids")
	fs.StringVar(&cfg.Log.Path, "log", "", "Client log file path")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Server.HTTPAddress = serverAddress.String()
	cfg.Server.Containers = splitList(containers)
	cfg.Sync.IgnoredSyncIDs = splitList(ignored)

	return &cfg, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost"
// or empty, and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
