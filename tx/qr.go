// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tx

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/blinklabs-io/stakeopt/staking"
	"golang.org/x/crypto/blake2b"
)

// Universal Offline Signatures framing
const (
	uosPrefixSubstrate = 0x53
	uosCryptoSr25519   = 0x01
	uosCryptoEd25519   = 0x00
	uosSignMortal      = 0x02
	uosSignImmortal    = 0x03
	uosSignature       = 0x00

	SignatureSize = 64

	extrinsicVersionSigned = 0x84
	multiAddressID         = 0x00
	multiSignatureSr25519  = 0x01
)

var ErrUnknownSignatureFormat = errors.New("unknown signature format")

// EncodeForQR frames an unsigned payload for an offline signer: the Substrate
// prefix, the sr25519 crypto type, a mortal or immortal sign command, the
// signer's public key, the full signing payload and the genesis hash. Long
// signing payloads are not hashed here
func EncodeForQR(p *UnsignedPayload, signer staking.AccountID) []byte {
	signing := p.SigningPayload()
	ret := make([]byte, 0, 3+staking.AccountIDLength+len(signing)+HashSize)
	ret = append(ret, uosPrefixSubstrate, uosCryptoSr25519)
	if p.Era.IsMortal() {
		ret = append(ret, uosSignMortal)
	} else {
		ret = append(ret, uosSignImmortal)
	}
	ret = append(ret, signer[:]...)
	ret = append(ret, signing...)
	ret = append(ret, p.GenesisHash[:]...)
	return ret
}

// DecodeSignature extracts a 64-byte signature from a signer's response. The
// response may be a UOS signature frame, a crypto type byte followed by the
// signature, the bare signature, or any of those as hex text
func DecodeSignature(data []byte) ([SignatureSize]byte, error) {
	var ret [SignatureSize]byte
	binData := data
	if len(data) >= 2*SignatureSize && isHexText(data) {
		tmp, err := hex.DecodeString(string(data))
		if err != nil {
			return ret, fmt.Errorf("decode hex signature: %w", err)
		}
		binData = tmp
	}
	switch {
	case len(binData) >= 3+SignatureSize && binData[0] == uosPrefixSubstrate:
		if binData[1] != uosCryptoSr25519 {
			return ret, fmt.Errorf("unsupported crypto type: 0x%02x", binData[1])
		}
		if binData[2] != uosSignature {
			return ret, fmt.Errorf("not a signature response: 0x%02x", binData[2])
		}
		copy(ret[:], binData[3:3+SignatureSize])
		return ret, nil
	case len(binData) >= 1+SignatureSize &&
		(binData[0] == uosCryptoSr25519 || binData[0] == uosCryptoEd25519):
		copy(ret[:], binData[1:1+SignatureSize])
		return ret, nil
	case len(binData) == SignatureSize:
		copy(ret[:], binData)
		return ret, nil
	}
	first := byte(0)
	if len(binData) > 0 {
		first = binData[0]
	}
	return ret, fmt.Errorf(
		"%w: %d bytes, first byte 0x%02x",
		ErrUnknownSignatureFormat,
		len(binData),
		first,
	)
}

func isHexText(data []byte) bool {
	for _, b := range data {
		switch {
		case b >= '0' && b <= '9', b >= 'a' && b <= 'f', b >= 'A' && b <= 'F':
		default:
			return false
		}
	}
	return true
}

// SignedExtrinsic is a length-prefixed signed transaction ready for submission
type SignedExtrinsic struct {
	Encoded     []byte
	Description string
	Hash        Hash
}

// BuildSignedExtrinsic assembles a version 4 signed extrinsic from a payload
// and an sr25519 signature over its signing payload
func BuildSignedExtrinsic(p *UnsignedPayload, signer staking.AccountID, signature [SignatureSize]byte) SignedExtrinsic {
	body := make([]byte, 0, 3+staking.AccountIDLength+SignatureSize+16+len(p.CallData))
	body = append(body, extrinsicVersionSigned, multiAddressID)
	body = append(body, signer[:]...)
	body = append(body, multiSignatureSr25519)
	body = append(body, signature[:]...)
	body = p.appendExtra(body)
	body = append(body, p.CallData...)

	encoded := AppendCompact(make([]byte, 0, len(body)+5), uint64(len(body)))
	encoded = append(encoded, body...)
	return SignedExtrinsic{
		Encoded:     encoded,
		Description: p.Description,
		Hash:        Hash(blake2b.Sum256(encoded)),
	}
}
