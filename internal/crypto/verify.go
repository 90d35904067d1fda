// Copyright 2025 The Nextcloud App Store Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package crypto implements the low-level detached-signature verification
// primitives used by the certificate validator. The digest algorithm is
// supplied by the caller from the process configuration rather than being
// derived from the key.
package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"fmt"
)

// VerifySignature verifies a detached signature over message using the
// provided public key and digest algorithm.
// Supports RSA (PKCS#1 v1.5, with PSS fallback), ECDSA (ASN.1 encoded) and
// Ed25519 keys. Ed25519 signs the raw message, so the digest is ignored for
// that key type.
// Returns nil if verification succeeds, or an error if the signature is
// invalid or the key type is unsupported.
func VerifySignature(publicKey crypto.PublicKey, hash crypto.Hash, message, signature []byte) error {
	switch key := publicKey.(type) {
	case *rsa.PublicKey:
		return verifyRSA(key, hash, message, signature)
	case *ecdsa.PublicKey:
		return verifyECDSA(key, hash, message, signature)
	case ed25519.PublicKey:
		return verifyEd25519(key, message, signature)
	default:
		return fmt.Errorf("unsupported public key type for verification: %T", publicKey)
	}
}

// digest hashes message with the given algorithm.
func digest(hash crypto.Hash, message []byte) ([]byte, error) {
	if !hash.Available() {
		return nil, fmt.Errorf("digest algorithm %v is not linked into the binary", hash)
	}
	h := hash.New()
	h.Write(message)
	return h.Sum(nil), nil
}

// verifyRSA verifies an RSA signature over the digest of message.
// PKCS#1 v1.5 is tried first (the scheme OpenSSL's verify uses), with PSS
// as a fallback for signatures produced by modern tooling.
func verifyRSA(key *rsa.PublicKey, hash crypto.Hash, message, signature []byte) error {
	digested, err := digest(hash, message)
	if err != nil {
		return err
	}

	err = rsa.VerifyPKCS1v15(key, hash, digested, signature)
	if err != nil {
		if rsa.VerifyPSS(key, hash, digested, signature, nil) == nil {
			return nil
		}
		return fmt.Errorf("RSA signature verification failed: %w", err)
	}

	return nil
}

// verifyECDSA verifies an ASN.1 encoded ECDSA signature over the digest of
// message.
func verifyECDSA(key *ecdsa.PublicKey, hash crypto.Hash, message, signature []byte) error {
	digested, err := digest(hash, message)
	if err != nil {
		return err
	}

	if !ecdsa.VerifyASN1(key, digested, signature) {
		return fmt.Errorf("ECDSA signature verification failed")
	}

	return nil
}

// verifyEd25519 verifies an Ed25519 signature. Ed25519 is a pure signature
// scheme over the raw message; no pre-hashing is applied.
func verifyEd25519(key ed25519.PublicKey, message, signature []byte) error {
	if !ed25519.Verify(key, message, signature) {
		return fmt.Errorf("Ed25519 signature verification failed")
	}
	return nil
}
