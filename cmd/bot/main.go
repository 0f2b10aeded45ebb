package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/ludbot/internal/config"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// cliOptions holds the raw flag values. Only flags the user actually set are
// turned into config overrides.
type cliOptions struct {
	configPath string
	host       string
	port       int
	nickname   string
	channel    string
	ipv4       bool
	encoding   string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:   "ludbot",
		Short: "LudBot - a small IRC channel bot",
		Long: `LudBot joins one channel on one IRC server and answers a handful of
commands: !hello, !slap, !joke, and a fact for every private message.

Settings come from the config file; flags override individual values.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "f", config.DefaultPath(), "Path to the config file (.toml, .yaml or .json)")
	flags.StringVarP(&opts.host, "host", "s", "", "IRC server hostname or address")
	flags.IntVarP(&opts.port, "port", "p", 0, "IRC server port")
	flags.StringVarP(&opts.nickname, "name", "n", "", "Nickname to register with")
	flags.StringVarP(&opts.channel, "channel", "c", "", "Channel to join, with or without '#'")
	flags.BoolVarP(&opts.ipv4, "ipv4", "4", false, "Connect over IPv4 instead of IPv6")
	flags.StringVarP(&opts.encoding, "encoding", "e", "", "Text encoding used on the wire")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the LudBot version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ludbot %s\n", version)
		},
	})

	return rootCmd
}

// overrides maps the flags that were given on the command line
func (o *cliOptions) overrides(cmd *cobra.Command) config.Overrides {
	var ov config.Overrides
	flags := cmd.Flags()

	if flags.Changed("host") {
		ov.Hostname = &o.host
	}
	if flags.Changed("port") {
		ov.Port = &o.port
	}
	if flags.Changed("name") {
		ov.Nickname = &o.nickname
	}
	if flags.Changed("channel") {
		ov.Channel = &o.channel
	}
	if flags.Changed("ipv4") && o.ipv4 {
		v := int(config.IPv4)
		ov.IPVersion = &v
	}
	if flags.Changed("encoding") {
		ov.Encoding = &o.encoding
	}
	return ov
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
