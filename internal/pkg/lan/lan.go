// Package lan finds the address other devices on the local network use to
// reach the server and renders it as QR codes.
package lan

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net"

	"github.com/jackpal/gateway"
	"github.com/mdp/qrterminal/v3"
	"github.com/skip2/go-qrcode"
)

// Half-block glyphs keep the terminal QR code square and compact.
const (
	blackWhite = "▄"
	blackBlack = " "
	whiteBlack = "▀"
	whiteWhite = "█"
)

var ErrNoLANAddress = errors.New("no LAN IPv4 address found")

// LocalIP returns the IPv4 address of the interface facing the default
// gateway. Without a gateway it falls back to the first global unicast IPv4.
func LocalIP() (net.IP, error) {
	addrs, err := interfaceAddrs()
	if err != nil {
		return nil, err
	}

	gw, err := gateway.DiscoverGateway()
	if err != nil {
		log.Printf("⚠️ Failed to discover gateway: %v", err)
		return pickIP(addrs, nil)
	}

	return pickIP(addrs, gw)
}

// URL is the address printed in the banner and encoded in QR codes.
// override wins when set.
func URL(override, port string) string {
	if override != "" {
		return override
	}

	ip, err := LocalIP()
	if err != nil {
		log.Printf("⚠️ %v, falling back to localhost", err)
		return "http://localhost:" + port
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(ip.String(), port))
}

func interfaceAddrs() ([]*net.IPNet, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve network interfaces: %w", err)
	}

	var out []*net.IPNet
	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			log.Printf("Warning: failed to get addresses for interface %s: %v", iface.Name, err)
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok {
				out = append(out, ipnet)
			}
		}
	}
	return out, nil
}

// pickIP prefers the address whose subnet holds gw.
func pickIP(addrs []*net.IPNet, gw net.IP) (net.IP, error) {
	var first net.IP
	for _, ipnet := range addrs {
		ipv4 := ipnet.IP.To4()
		if ipv4 == nil || !ipv4.IsGlobalUnicast() || ipv4.IsLoopback() {
			continue
		}
		if gw != nil && ipnet.Contains(gw) {
			return ipv4, nil
		}
		if first == nil {
			first = ipv4
		}
	}

	if first == nil {
		return nil, ErrNoLANAddress
	}
	return first, nil
}

// PrintBanner writes the startup banner with an optional terminal QR code.
func PrintBanner(w io.Writer, url, server string, showQR bool) {
	fmt.Fprintf(w, "\n🚀 UTransfer is running on %s\n", server)
	fmt.Fprintf(w, "📱 Open %s on any device in this network\n\n", url)

	if !showQR {
		return
	}

	qrterminal.GenerateWithConfig(url, qrterminal.Config{
		Level:          qrterminal.M,
		Writer:         w,
		HalfBlocks:     true,
		BlackChar:      blackBlack,
		WhiteBlackChar: whiteBlack,
		WhiteChar:      whiteWhite,
		BlackWhiteChar: blackWhite,
		QuietZone:      1,
	})
	fmt.Fprintln(w)
}

// QRPNG encodes url as a PNG image size pixels wide.
func QRPNG(url string, size int) ([]byte, error) {
	return qrcode.Encode(url, qrcode.Medium, size)
}
