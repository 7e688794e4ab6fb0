// Package config loads the YAML file describing the interface and relay.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/adnsio/go-vmnet/vmnet"
)

type Config struct {
	// Listen is the UDP address the relay binds, matching QEMU's
	// "-netdev socket,udp=" peer.
	Listen string `yaml:"listen"`

	Mode            string   `yaml:"mode"`
	InterfaceID     string   `yaml:"interface_id"`
	Subnet          *Subnet  `yaml:"subnet"`
	Isolation       bool     `yaml:"isolation"`
	BridgeInterface string   `yaml:"bridge_interface"`
	IdleTimeout     Duration `yaml:"idle_timeout"`

	// Forwards are installed on the interface right after start.
	Forwards []Forward `yaml:"forwards"`
}

type Subnet struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	Mask  string `yaml:"mask"`
}

type Forward struct {
	Protocol        string `yaml:"protocol"`
	ExternalPort    uint16 `yaml:"external_port"`
	InternalAddress string `yaml:"internal_address"`
	InternalPort    uint16 `yaml:"internal_port"`
}

// Duration accepts Go duration strings ("90s", "2m") in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func Default() Config {
	return Config{
		Listen:      ":1234",
		Mode:        "shared",
		IdleTimeout: Duration(2 * time.Minute),
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

// InterfaceOptions translates the config into vmnet options, validating as
// it goes.
func (c Config) InterfaceOptions() (vmnet.Options, error) {
	mode, err := vmnet.ParseOperationMode(c.Mode)
	if err != nil {
		return vmnet.Options{}, err
	}

	opts := vmnet.Options{
		Mode:            mode,
		InterfaceID:     c.InterfaceID,
		EnableIsolation: c.Isolation,
		SharedInterface: c.BridgeInterface,
	}
	if c.Subnet != nil {
		if opts.StartAddress, err = parseAddr("subnet start", c.Subnet.Start); err != nil {
			return vmnet.Options{}, err
		}
		if opts.EndAddress, err = parseAddr("subnet end", c.Subnet.End); err != nil {
			return vmnet.Options{}, err
		}
		if opts.SubnetMask, err = parseAddr("subnet mask", c.Subnet.Mask); err != nil {
			return vmnet.Options{}, err
		}
	}
	if err := opts.Validate(); err != nil {
		return vmnet.Options{}, err
	}
	return opts, nil
}

// ForwardingRules translates the forwards section.
func (c Config) ForwardingRules() ([]vmnet.PortForwardingRule, error) {
	rules := make([]vmnet.PortForwardingRule, 0, len(c.Forwards))
	for i, f := range c.Forwards {
		proto, err := vmnet.ParseProtocol(f.Protocol)
		if err != nil {
			return nil, fmt.Errorf("forward %d: %w", i, err)
		}
		addr, err := parseAddr(fmt.Sprintf("forward %d internal address", i), f.InternalAddress)
		if err != nil {
			return nil, err
		}
		rule := vmnet.PortForwardingRule{
			Protocol:        proto,
			ExternalPort:    f.ExternalPort,
			InternalAddress: addr,
			InternalPort:    f.InternalPort,
		}
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("forward %d: %w", i, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (c Config) Validate() error {
	if c.Listen == "" {
		return errors.New("listen address must be set")
	}
	if _, err := c.InterfaceOptions(); err != nil {
		return err
	}
	_, err := c.ForwardingRules()
	return err
}

func parseAddr(what, s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("parse %s %q: %w", what, s, err)
	}
	return addr, nil
}
