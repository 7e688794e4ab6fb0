package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/adnsio/go-vmnet/config"
	"github.com/adnsio/go-vmnet/relay"
	"github.com/adnsio/go-vmnet/vmnet"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		cfgPath string
		listen  string
		mode    string
		debug   bool
	)

	cmd := &cobra.Command{
		Use:   "go-vmnet",
		Short: "Expose a vmnet interface to QEMU over a UDP socket",
		Long: "go-vmnet creates a vmnet.framework interface and relays raw Ethernet\n" +
			"frames between it and QEMU's UDP socket network backend.\n\n" +
			"Creating the interface requires root (or the com.apple.vm.networking\n" +
			"entitlement).",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(debug)

			cfg := config.Default()
			if cfgPath != "" {
				var err error
				if cfg, err = config.Load(cfgPath); err != nil {
					return err
				}
			}
			if listen != "" {
				cfg.Listen = listen
			}
			if mode != "" {
				cfg.Mode = mode
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return run(cmd.Context(), cfg, log)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to the YAML config file")
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "UDP listen address (overrides config)")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "operation mode: host, shared or bridged (overrides config)")
	cmd.Flags().BoolVar(&debug, "debug", false, "log every relayed frame")

	cmd.AddCommand(interfacesCmd())

	return cmd
}

// interfacesCmd lists the physical interfaces usable with bridged mode.
func interfacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interfaces",
		Short: "List interfaces available for bridged mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := vmnet.SharedInterfaces()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	opts, err := cfg.InterfaceOptions()
	if err != nil {
		return err
	}
	rules, err := cfg.ForwardingRules()
	if err != nil {
		return err
	}

	ifc := vmnet.New(opts)
	if err := ifc.Start(); err != nil {
		return fmt.Errorf("start vmnet interface: %w", err)
	}
	defer ifc.Stop()

	log.Info().
		Stringer("mode", opts.Mode).
		Str("mac", ifc.MAC().String()).
		Int("mtu", ifc.MTU()).
		Int("max_packet_size", ifc.MaxPacketSize()).
		Msg("vmnet interface started")

	for _, rule := range rules {
		if err := ifc.AddPortForwardingRule(rule); err != nil {
			return fmt.Errorf("add forwarding rule %s: %w", rule, err)
		}
		log.Info().Stringer("rule", rule).Msg("forwarding rule installed")
	}

	laddr, err := net.ResolveUDPAddr("udp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return fmt.Errorf("listen udp: %w", err)
	}
	defer conn.Close()

	log.Info().Stringer("addr", conn.LocalAddr()).Msg("listening")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Unblock the relay pumps when the context ends: stopping the
	// interface wakes blocked reads, closing the socket wakes ReadFromUDP.
	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		ifc.Stop()
		conn.Close()
	}()

	return relay.New(ifc, conn, time.Duration(cfg.IdleTimeout), log).Run(ctx)
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
