package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mogproject/mog-cli-archive/internal/csaclient"
	"github.com/mogproject/mog-cli-archive/internal/shell"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		host  string
		port  int
		user  string
		pass  string
		debug bool
	)

	cmd := &cobra.Command{
		Use:   "mog-cli",
		Short: "Interactive CSA shogi protocol client",
		Long:  "mog-cli is an interactive shell for playing shogi over the CSA TCP protocol.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				logrus.SetLevel(logrus.DebugLevel)
			}
			log := logrus.NewEntry(logrus.StandardLogger())

			sh := shell.New(os.Stdin, os.Stdout, log)
			sh.DefaultHost = host
			sh.DefaultPort = port
			sh.DefaultUser = user
			sh.DefaultPass = pass
			sh.Start()
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&host, "host", "H", csaclient.DefaultHost, "CSA server hostname")
	flags.IntVarP(&port, "port", "P", csaclient.DefaultPort, "CSA server port")
	flags.StringVarP(&user, "user", "u", "", "default username for LOGIN")
	flags.StringVarP(&pass, "pass", "p", "", "default password for LOGIN")
	flags.BoolVar(&debug, "debug", false, "enable debug logging")

	return cmd
}
