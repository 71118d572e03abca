package ibc

import (
	"errors"
	"fmt"
	"strings"
)

var errEmptyDenom = errors.New("empty denom")

// DenomSent returns the local denom of an outbound packet, which is already
// in local form.
func DenomSent(denom string) (string, error) {
	if strings.TrimSpace(denom) == "" {
		return "", errEmptyDenom
	}
	return denom, nil
}

// DenomReceived converts the denom of an inbound packet to its local form.
// A denom prefixed with the source port/channel is returning home and loses
// the prefix; any other denom gains the destination port/channel prefix.
func DenomReceived(denom, srcPort, srcChannel, dstPort, dstChannel string) (string, error) {
	if strings.TrimSpace(denom) == "" {
		return "", errEmptyDenom
	}
	for _, id := range []string{srcPort, srcChannel, dstPort, dstChannel} {
		if err := validateIdentifier(id); err != nil {
			return "", err
		}
	}

	sourcePrefix := srcPort + "/" + srcChannel + "/"
	if rest, ok := strings.CutPrefix(denom, sourcePrefix); ok {
		if rest == "" {
			return "", fmt.Errorf("denom %q has nothing after prefix %q", denom, sourcePrefix)
		}
		return rest, nil
	}
	return dstPort + "/" + dstChannel + "/" + denom, nil
}

func validateIdentifier(id string) error {
	if id == "" {
		return errors.New("empty port or channel identifier")
	}
	if strings.ContainsAny(id, "/ ") {
		return fmt.Errorf("malformed port or channel identifier %q", id)
	}
	return nil
}
