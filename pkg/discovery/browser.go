package discovery

import (
	"context"
	"net"

	"github.com/enbility/zeroconf/v3"
)

// BrowserConfig configures browsing.
type BrowserConfig struct {
	// Interface restricts browsing to one interface. Empty means all.
	Interface string
}

// MDNSBrowser browses DNS-SD services using zeroconf.
type MDNSBrowser struct {
	config BrowserConfig
}

// NewMDNSBrowser creates a new mDNS browser.
func NewMDNSBrowser(config BrowserConfig) *MDNSBrowser {
	return &MDNSBrowser{config: config}
}

// Browse streams instances of serviceType until ctx is done. Instances are
// aggregated by name; addresses seen on several interfaces are merged and
// each instance is emitted once.
func (b *MDNSBrowser) Browse(ctx context.Context, serviceType string) (<-chan *Entry, error) {
	out := make(chan *Entry)
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	go func() {
		defer close(out)
		seen := make(map[string]*Entry)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				e := toEntry(entry)
				if existing, found := seen[e.Instance]; found {
					existing.Addresses = mergeAddresses(existing.Addresses, e.Addresses)
					continue
				}
				seen[e.Instance] = e
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			case entry, ok := <-removed:
				if ok {
					delete(seen, entry.Instance)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, serviceType, Domain, entries, removed, b.options()...)
	}()

	return out, nil
}

func (b *MDNSBrowser) options() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption
	if b.config.Interface != "" {
		if iface, err := net.InterfaceByName(b.config.Interface); err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}
	return opts
}

func toEntry(entry *zeroconf.ServiceEntry) *Entry {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}
	return &Entry{
		Instance:  entry.Instance,
		Host:      entry.HostName,
		Port:      entry.Port,
		Addresses: addrs,
		TXT:       StringsToTXTRecords(entry.Text),
	}
}

func mergeAddresses(existing, added []string) []string {
	set := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		set[a] = struct{}{}
	}
	for _, a := range added {
		if _, ok := set[a]; !ok {
			existing = append(existing, a)
			set[a] = struct{}{}
		}
	}
	return existing
}
