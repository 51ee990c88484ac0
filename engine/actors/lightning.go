package actors

import (
	"fmt"
	"net/url"
	"strings"

	"factionengine/engine/library"
	"github.com/fiatjaf/go-lnurl"
)

// InviteURL is the link a member shares to bring another wallet into the protocol.
func InviteURL(domain string, ref library.Account) string {
	return strings.TrimRight(domain, "/") + "/join?ref=" + url.QueryEscape(ref)
}

// EncodeInvite turns an invite link into a bech32 code that survives copy/paste and QR scanning.
func EncodeInvite(inviteURL string) (string, error) {
	return lnurl.Encode(inviteURL)
}

// DecodeInvite accepts either a bech32 invite code or a plain invite link and returns the ref account.
func DecodeInvite(code string) (library.Account, error) {
	link := strings.TrimSpace(code)
	if strings.HasPrefix(strings.ToLower(link), "lnurl") {
		decoded, err := lnurl.LNURLDecode(link)
		if err != nil {
			return "", fmt.Errorf("decode invite code: %w", err)
		}
		link = decoded
	}
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parse invite link: %w", err)
	}
	ref := u.Query().Get("ref")
	if ref == "" {
		return "", fmt.Errorf("invite link %s has no ref", link)
	}
	return ref, nil
}
