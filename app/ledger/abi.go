package ledger

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

const wordSize = 32

// selector returns the 4-byte ABI selector for a canonical method signature.
func selector(signature string) []byte {
	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(signature))
	return hash.Sum(nil)[:4]
}

// encodeCall builds 0x-prefixed calldata from a signature and pre-padded
// 32-byte argument words.
func encodeCall(signature string, words ...[]byte) string {
	data := selector(signature)
	for _, word := range words {
		data = append(data, word...)
	}
	return "0x" + hex.EncodeToString(data)
}

func addressWord(address string) ([]byte, error) {
	raw := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(address)), "0x")
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", address, err)
	}
	if len(decoded) != 20 {
		return nil, fmt.Errorf("invalid address %q: want 20 bytes, got %d", address, len(decoded))
	}

	word := make([]byte, wordSize)
	copy(word[wordSize-len(decoded):], decoded)
	return word, nil
}

func uintWord(value *big.Int) ([]byte, error) {
	if value == nil || value.Sign() < 0 {
		return nil, fmt.Errorf("invalid uint256 value %v", value)
	}
	raw := value.Bytes()
	if len(raw) > wordSize {
		return nil, fmt.Errorf("uint256 overflow: %s", value)
	}

	word := make([]byte, wordSize)
	copy(word[wordSize-len(raw):], raw)
	return word, nil
}

func decodeUint(result string) (*big.Int, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(result), "0x")
	if raw == "" {
		return big.NewInt(0), nil
	}
	value, ok := new(big.Int).SetString(raw, 16)
	if !ok {
		return nil, fmt.Errorf("invalid uint256 result %q", result)
	}
	return value, nil
}

func decodeBool(result string) (bool, error) {
	value, err := decodeUint(result)
	if err != nil {
		return false, err
	}
	return value.Sign() != 0, nil
}
