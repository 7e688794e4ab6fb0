package relay

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// frameSummary renders the Ethernet header for debug logs. Payloads are
// never inspected beyond the header.
func frameSummary(frame []byte) string {
	pkt := gopacket.NewPacket(frame, layers.LayerTypeEthernet, gopacket.NoCopy)
	eth, ok := pkt.Layer(layers.LayerTypeEthernet).(*layers.Ethernet)
	if !ok {
		return "not an ethernet frame"
	}
	return fmt.Sprintf("%s > %s (%s)", eth.SrcMAC, eth.DstMAC, eth.EthernetType)
}
