package store

import (
	"encoding/base64"
)

// credentialMask is the rolling XOR key applied before base64 encoding. This
// is obfuscation against casual inspection of the data directory, not
// encryption.
var credentialMask = []byte("posterlab")

// SaveCredential persists the API credential in obfuscated form.
func (s *Store) SaveCredential(credential string) bool {
	s.credMu.Lock()
	defer s.credMu.Unlock()
	if credential == "" {
		return s.sub.Delete(keyCredential) == nil
	}
	return s.writeRecord(keyCredential, obfuscate(credential))
}

// LoadCredential returns the stored credential, reporting absence.
func (s *Store) LoadCredential() (string, bool) {
	s.credMu.Lock()
	defer s.credMu.Unlock()
	var encoded string
	if !s.readRecord(keyCredential, &encoded) {
		return "", false
	}
	credential, ok := deobfuscate(encoded)
	if !ok || credential == "" {
		return "", false
	}
	return credential, true
}

func obfuscate(plain string) string {
	data := []byte(plain)
	for i := range data {
		data[i] ^= credentialMask[i%len(credentialMask)]
	}
	return base64.StdEncoding.EncodeToString(data)
}

func deobfuscate(encoded string) (string, bool) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	for i := range data {
		data[i] ^= credentialMask[i%len(credentialMask)]
	}
	return string(data), true
}
