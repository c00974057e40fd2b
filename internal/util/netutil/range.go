package netutil

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
)

// expandLimit guards Expand against absurd ranges produced by bad input.
const expandLimit = 1 << 20

// ErrNoContiguousBlock is returned when a subnet has no run of free
// addresses long enough to satisfy a request.
var ErrNoContiguousBlock = errors.New("no contiguous block of free addresses")

// Range is an inclusive, contiguous block of IPv4 addresses together with
// the netmask its consumer applies.
type Range struct {
	First   string
	Last    string
	Netmask string
}

// Size returns the number of addresses in the range, inclusive.
func (r Range) Size() (int, error) {
	first, err := IPToUint(r.First)
	if err != nil {
		return 0, err
	}
	last, err := IPToUint(r.Last)
	if err != nil {
		return 0, err
	}
	if last < first {
		return 0, fmt.Errorf("range %s-%s is inverted", r.First, r.Last)
	}
	return int(last-first) + 1, nil
}

// Expand lists every address in the range, lowest first.
func (r Range) Expand() ([]string, error) {
	size, err := r.Size()
	if err != nil {
		return nil, err
	}
	if size > expandLimit {
		return nil, fmt.Errorf("range %s-%s spans %d addresses, refusing to expand", r.First, r.Last, size)
	}
	first, _ := IPToUint(r.First)
	addrs := make([]string, size)
	for i := range size {
		addrs[i] = UintToIP(first + uint32(i))
	}
	return addrs, nil
}

// Contains reports whether addr falls inside the range, inclusive.
func (r Range) Contains(addr string) (bool, error) {
	v, err := IPToUint(addr)
	if err != nil {
		return false, err
	}
	first, err := IPToUint(r.First)
	if err != nil {
		return false, err
	}
	last, err := IPToUint(r.Last)
	if err != nil {
		return false, err
	}
	return v >= first && v <= last, nil
}

// RangeFrom builds the inclusive range covering count addresses starting
// at first.
func RangeFrom(first string, count int, netmask string) (Range, error) {
	if count < 1 {
		return Range{}, fmt.Errorf("range needs at least one address, got %d", count)
	}
	last, err := Offset(first, count-1)
	if err != nil {
		return Range{}, err
	}
	return Range{First: first, Last: last, Netmask: netmask}, nil
}

// IPToUint converts a dotted-quad IPv4 address to its numeric form.
func IPToUint(addr string) (uint32, error) {
	ip := net.ParseIP(addr)
	if ip == nil {
		return 0, fmt.Errorf("invalid IPv4 address %q", addr)
	}
	v4 := ip.To4()
	if v4 == nil {
		return 0, fmt.Errorf("only IPv4 addresses are supported, got %q", addr)
	}
	return binary.BigEndian.Uint32(v4), nil
}

// UintToIP converts a numeric IPv4 address back to dotted-quad form.
func UintToIP(v uint32) string {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return net.IP(b).String()
}

// Offset returns the address n steps above addr.
func Offset(addr string, n int) (string, error) {
	v, err := IPToUint(addr)
	if err != nil {
		return "", err
	}
	return UintToIP(v + uint32(n)), nil
}

// Compare orders two IPv4 addresses numerically: -1, 0, or 1.
func Compare(a, b string) (int, error) {
	av, err := IPToUint(a)
	if err != nil {
		return 0, err
	}
	bv, err := IPToUint(b)
	if err != nil {
		return 0, err
	}
	switch {
	case av < bv:
		return -1, nil
	case av > bv:
		return 1, nil
	default:
		return 0, nil
	}
}

// MaskToPrefix converts a dotted-quad netmask to prefix length.
func MaskToPrefix(netmask string) (int, error) {
	ip := net.ParseIP(netmask)
	if ip == nil || ip.To4() == nil {
		return 0, fmt.Errorf("invalid netmask %q", netmask)
	}
	ones, bits := net.IPMask(ip.To4()).Size()
	if bits != 32 {
		return 0, fmt.Errorf("invalid netmask %q", netmask)
	}
	return ones, nil
}

// PrefixToMask converts a prefix length to a dotted-quad netmask.
func PrefixToMask(bits int) (string, error) {
	if bits < 0 || bits > 32 {
		return "", fmt.Errorf("invalid prefix length %d", bits)
	}
	return net.IP(net.CIDRMask(bits, 32)).String(), nil
}

// ContiguousBlock finds count consecutive free host addresses inside the
// subnet, skipping the network and broadcast addresses and everything in
// occupied. Addresses are returned lowest first.
func ContiguousBlock(cidr string, count int, occupied []string) ([]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("block needs at least one address, got %d", count)
	}
	_, subnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("invalid CIDR %q: %w", cidr, err)
	}
	if subnet.IP.To4() == nil {
		return nil, fmt.Errorf("only IPv4 subnets are supported, got %q", cidr)
	}

	taken := make(map[uint32]struct{}, len(occupied))
	for _, addr := range occupied {
		v, err := IPToUint(addr)
		if err != nil {
			continue
		}
		taken[v] = struct{}{}
	}

	network := binary.BigEndian.Uint32(subnet.IP.To4())
	ones, _ := subnet.Mask.Size()
	broadcast := network | (^uint32(0) >> ones)

	run := 0
	for v := network + 1; v < broadcast; v++ {
		if _, ok := taken[v]; ok {
			run = 0
			continue
		}
		run++
		if run == count {
			start := v - uint32(count) + 1
			block := make([]string, count)
			for i := range count {
				block[i] = UintToIP(start + uint32(i))
			}
			return block, nil
		}
	}
	return nil, fmt.Errorf("%w: need %d in %s", ErrNoContiguousBlock, count, cidr)
}
