package ledger

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"
)

func TestSelectorMatchesKnownERC20Selectors(t *testing.T) {
	cases := []struct {
		signature string
		want      string
	}{
		{"balanceOf(address)", "70a08231"},
		{"allowance(address,address)", "dd62ed3e"},
		{"approve(address,uint256)", "095ea7b3"},
		{"transferFrom(address,address,uint256)", "23b872dd"},
	}

	for _, tc := range cases {
		if got := hex.EncodeToString(selector(tc.signature)); got != tc.want {
			t.Fatalf("selector(%q) = %s, want %s", tc.signature, got, tc.want)
		}
	}
}

func TestAddressWord(t *testing.T) {
	word, err := addressWord("0x000000000000000000000000000000000000dEaD")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(word) != wordSize {
		t.Fatalf("expected %d bytes, got %d", wordSize, len(word))
	}
	if got := hex.EncodeToString(word[12:]); got != "000000000000000000000000000000000000dead" {
		t.Fatalf("unexpected address bytes: %s", got)
	}

	if _, err := addressWord("0x1234"); err == nil {
		t.Fatal("expected error for short address")
	}
	if _, err := addressWord("0xzz34567890123456789012345678901234567890"); err == nil {
		t.Fatal("expected error for non-hex address")
	}
}

func TestUintWord(t *testing.T) {
	word, err := uintWord(big.NewInt(1000000))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(word) != wordSize {
		t.Fatalf("expected %d bytes, got %d", wordSize, len(word))
	}
	if got := new(big.Int).SetBytes(word); got.Cmp(big.NewInt(1000000)) != 0 {
		t.Fatalf("round trip mismatch: %s", got)
	}

	if _, err := uintWord(nil); err == nil {
		t.Fatal("expected error for nil value")
	}
	if _, err := uintWord(big.NewInt(-1)); err == nil {
		t.Fatal("expected error for negative value")
	}
	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	if _, err := uintWord(tooBig); err == nil {
		t.Fatal("expected error for value over 32 bytes")
	}
}

func TestEncodeCall(t *testing.T) {
	word, err := addressWord("0x000000000000000000000000000000000000dead")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	data := encodeCall("balanceOf(address)", word)
	if !strings.HasPrefix(data, "0x70a08231") {
		t.Fatalf("calldata missing selector: %s", data)
	}
	if len(data) != 2+8+64 {
		t.Fatalf("unexpected calldata length %d", len(data))
	}
}

func TestDecodeUint(t *testing.T) {
	value, err := decodeUint("0x00000000000000000000000000000000000000000000000000000000000f4240")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if value.Cmp(big.NewInt(1000000)) != 0 {
		t.Fatalf("expected 1000000, got %s", value)
	}

	zero, err := decodeUint("0x")
	if err != nil || zero.Sign() != 0 {
		t.Fatalf("expected zero for empty result, got %s, %v", zero, err)
	}

	if _, err := decodeUint("0xnothex"); err == nil {
		t.Fatal("expected error for invalid hex")
	}
}

func TestDecodeBool(t *testing.T) {
	truthy, err := decodeBool("0x0000000000000000000000000000000000000000000000000000000000000001")
	if err != nil || !truthy {
		t.Fatalf("expected true, got %v, %v", truthy, err)
	}
	falsy, err := decodeBool("0x0000000000000000000000000000000000000000000000000000000000000000")
	if err != nil || falsy {
		t.Fatalf("expected false, got %v, %v", falsy, err)
	}
}
