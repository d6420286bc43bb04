package crypto

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
	"github.com/consensys/gnark-crypto/field/hash"
)

// RFC 9380 appendix K.1, expand_message_xmd(SHA-256).
func TestExpandMessageXMDVectors(t *testing.T) {
	dst := []byte("QUUX-V01-CS02-with-expander-SHA256-128")
	tests := []struct {
		msg    string
		length int
		want   string
	}{
		{"", 0x20, "68a985b87eb6b46952128911f2a4412bbc302a9d759667f87f7a21d803f07235"},
		{"abc", 0x20, "d8ccab23b5985ccea865c6c97b6e5b8350e794e603b4b97902f53a8a0d605615"},
		{"abcdef0123456789", 0x20, "eff31487c770a893cfb36f912fbfcbff40d5661771ca4b2cb4eafe524333f5c1"},
	}
	for _, tt := range tests {
		got, err := ExpandMessageXMD(sha256.New, []byte(tt.msg), dst, tt.length)
		if err != nil {
			t.Fatalf("msg %q: %v", tt.msg, err)
		}
		if hex.EncodeToString(got) != tt.want {
			t.Errorf("msg %q: got %x, want %s", tt.msg, got, tt.want)
		}
	}
}

// gnark's ExpandMsgXmd only handles outputs of at least one SHA-256 block;
// shorter lengths are covered by the RFC vectors.
func TestExpandMessageXMDMatchesGnark(t *testing.T) {
	dst := []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")
	for _, n := range []int{32, 33, 64, 128, 255, 256, 1000} {
		msg := bytes.Repeat([]byte{0x61}, n%97)
		want, err := hash.ExpandMsgXmd(msg, dst, n)
		if err != nil {
			t.Fatalf("gnark ExpandMsgXmd(%d): %v", n, err)
		}
		got, err := ExpandMessageXMD(sha256.New, msg, dst, n)
		if err != nil {
			t.Fatalf("ExpandMessageXMD(%d): %v", n, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("length %d: mismatch with gnark-crypto", n)
		}
	}
}

func TestExpanderXMDSmallReads(t *testing.T) {
	dst := []byte("DST")
	want, err := ExpandMessageXMD(sha256.New, []byte("msg"), dst, 100)
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewExpanderXMD(sha256.New, []byte("msg"), dst, 100)
	if err != nil {
		t.Fatal(err)
	}
	var got []byte
	buf := make([]byte, 7)
	for {
		n, err := r.Read(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if !bytes.Equal(got, want) {
		t.Error("chunked read differs from one-shot expansion")
	}
}

// RFC 9380 appendix K.3, expand_message_xmd(SHA-512).
func TestExpandMessageXMDSHA512Vectors(t *testing.T) {
	dst := []byte("QUUX-V01-CS02-with-expander-SHA512-256")
	q128 := "q128_" + strings.Repeat("q", 128)
	a512 := "a512_" + strings.Repeat("a", 512)
	tests := []struct {
		msg    string
		length int
		want   string
	}{
		{"", 0x20, "6b9a7312411d92f921c6f68ca0b6380730a1a4d982c507211a90964c394179ba"},
		{"abc", 0x20, "0da749f12fbe5483eb066a5f595055679b976e93abe9be6f0f6318bce7aca8dc"},
		{"abcdef0123456789", 0x20, "087e45a86e2939ee8b91100af1583c4938e0f5fc6c9db4b107b83346bc967f58"},
		{q128, 0x20, "7336234ee9983902440f6bc35b348352013becd88938d2afec44311caf8356b3"},
		{a512, 0x20, "57b5f7e766d5be68a6bfe1768e3c2b7f1228b3e4b3134956dd73a59b954c66f4"},
		{"", 0x80, "41b037d1734a5f8df225dd8c7de38f851efdb45c372887be655212d07251b921b052b62eaed99b46f72f2ef4cc96bfaf254ebbbec091e1a3b9e4fb5e5b619d2e0c5414800a1d882b62bb5cd1778f098b8eb6cb399d5d9d18f5d5842cf5d13d7eb00a7cff859b605da678b318bd0e65ebff70bec88c753b159a805d2c89c55961"},
		{"abc", 0x80, "7f1dddd13c08b543f2e2037b14cefb255b44c83cc397c1786d975653e36a6b11bdd7732d8b38adb4a0edc26a0cef4bb45217135456e58fbca1703cd6032cb1347ee720b87972d63fbf232587043ed2901bce7f22610c0419751c065922b488431851041310ad659e4b23520e1772ab29dcdeb2002222a363f0c2b1c972b3efe1"},
		{"abcdef0123456789", 0x80, "3f721f208e6199fe903545abc26c837ce59ac6fa45733f1baaf0222f8b7acb0424814fcb5eecf6c1d38f06e9d0a6ccfbf85ae612ab8735dfdf9ce84c372a77c8f9e1c1e952c3a61b7567dd0693016af51d2745822663d0c2367e3f4f0bed827feecc2aaf98c949b5ed0d35c3f1023d64ad1407924288d366ea159f46287e61ac"},
		{q128, 0x80, "b799b045a58c8d2b4334cf54b78260b45eec544f9f2fb5bd12fb603eaee70db7317bf807c406e26373922b7b8920fa29142703dd52bdf280084fb7ef69da78afdf80b3586395b433dc66cde048a258e476a561e9deba7060af40adf30c64249ca7ddea79806ee5beb9a1422949471d267b21bc88e688e4014087a0b592b695ed"},
		{a512, 0x80, "05b0bfef265dcee87654372777b7c44177e2ae4c13a27f103340d9cd11c86cb2426ffcad5bd964080c2aee97f03be1ca18e30a1f14e27bc11ebbd650f305269cc9fb1db08bf90bfc79b42a952b46daf810359e7bc36452684784a64952c343c52e5124cd1f71d474d5197fefc571a92929c9084ffe1112cf5eea5192ebff330b"},
	}
	for _, tt := range tests {
		got, err := ExpandMessageXMD(sha512.New, []byte(tt.msg), dst, tt.length)
		if err != nil {
			t.Fatalf("msg %.10q len %d: %v", tt.msg, tt.length, err)
		}
		if hex.EncodeToString(got) != tt.want {
			t.Errorf("msg %.10q len %d: got %x, want %s", tt.msg, tt.length, got, tt.want)
		}
	}
	// SHA-512 blocks are 64 bytes, so the block limit allows 255*64 bytes.
	if _, err := NewExpanderXMD(sha512.New, []byte("abc"), dst, 255*64); err != nil {
		t.Errorf("SHA-512 max length: %v", err)
	}
	if _, err := NewExpanderXMD(sha512.New, []byte("abc"), dst, 255*64+1); !errors.Is(err, ErrExpandLength) {
		t.Errorf("SHA-512 oversized length: err = %v", err)
	}
}

func TestExpanderLimits(t *testing.T) {
	msg := []byte("abc")
	if _, err := NewExpanderXMD(sha256.New, msg, []byte("DST"), 255*32+1); !errors.Is(err, ErrExpandLength) {
		t.Errorf("XMD oversized length: err = %v", err)
	}
	if _, err := NewExpanderXMD(sha256.New, msg, []byte("DST"), -1); !errors.Is(err, ErrExpandLength) {
		t.Errorf("XMD negative length: err = %v", err)
	}
	if _, err := NewExpanderSHAKE128(msg, []byte("DST"), 65536); !errors.Is(err, ErrExpandLength) {
		t.Errorf("XOF oversized length: err = %v", err)
	}
	if _, err := NewExpanderXMD(sha256.New, msg, nil, 32); !errors.Is(err, ErrEmptyDST) {
		t.Errorf("XMD empty DST: err = %v", err)
	}
	if _, err := NewExpanderSHAKE256(msg, nil, 32); !errors.Is(err, ErrEmptyDST) {
		t.Errorf("XOF empty DST: err = %v", err)
	}
}

// longDST pads prefix with '1' to 256 bytes, as in the RFC 9380 long-DST
// test suites.
func longDST(prefix string) []byte {
	return []byte(prefix + strings.Repeat("1", 256-len(prefix)))
}

// RFC 9380 appendix K.2, expand_message_xmd(SHA-256) with an oversized DST.
func TestExpandMessageXMDLongDST(t *testing.T) {
	dst := longDST("QUUX-V01-CS02-with-expander-SHA256-128-long-DST-")
	tests := []struct {
		msg  string
		want string
	}{
		{"", "e8dc0c8b686b7ef2074086fbdd2f30e3f8bfbd3bdf177f73f04b97ce618a3ed3"},
		{"abc", "52dbf4f36cf560fca57dedec2ad924ee9c266341d8f3d6afe5171733b16bbb12"},
		{"abcdef0123456789", "35387dcf22618f3728e6c686490f8b431f76550b0b2c61cbc1ce7001536f4521"},
	}
	for _, tt := range tests {
		got, err := ExpandMessageXMD(sha256.New, []byte(tt.msg), dst, 0x20)
		if err != nil {
			t.Fatalf("msg %q: %v", tt.msg, err)
		}
		if hex.EncodeToString(got) != tt.want {
			t.Errorf("msg %q: got %x, want %s", tt.msg, got, tt.want)
		}
	}
}

func readAllExpander(t *testing.T, r io.Reader, err error) []byte {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

// RFC 9380 appendices K.4 to K.6, expand_message_xof.
func TestExpandMessageXOFVectors(t *testing.T) {
	shake128 := []byte("QUUX-V01-CS02-with-expander-SHAKE128")
	shake128Long := longDST("QUUX-V01-CS02-with-expander-SHAKE128-long-DST-")
	shake256 := []byte("QUUX-V01-CS02-with-expander-SHAKE256")

	tests := []struct {
		name string
		new  func(msg, dst []byte, length int) (io.Reader, error)
		dst  []byte
		msg  string
		want string
	}{
		{"shake128", NewExpanderSHAKE128, shake128, "", "86518c9cd86581486e9485aa74ab35ba150d1c75c88e26b7043e44e2acd735a2"},
		{"shake128", NewExpanderSHAKE128, shake128, "abc", "8696af52a4d862417c0763556073f47bc9b9ba43c99b505305cb1ec04a9ab468"},
		{"shake128", NewExpanderSHAKE128, shake128, "abcdef0123456789", "912c58deac4821c3509dbefa094df54b34b8f5d01a191d1d3108a2c89077acca"},
		{"shake128 long dst", NewExpanderSHAKE128, shake128Long, "", "827c6216330a122352312bccc0c8d6e7a146c5257a776dbd9ad9d75cd880fc53"},
		{"shake128 long dst", NewExpanderSHAKE128, shake128Long, "abc", "690c8d82c7213b4282c6cb41c00e31ea1d3e2005f93ad19bbf6da40f15790c5c"},
		{"shake128 long dst", NewExpanderSHAKE128, shake128Long, "abcdef0123456789", "979e3a15064afbbcf99f62cc09fa9c85028afcf3f825eb0711894dcfc2f57057"},
		{"shake256", NewExpanderSHAKE256, shake256, "", "2ffc05c48ed32b95d72e807f6eab9f7530dd1c2f013914c8fed38c5ccc15ad76"},
		{"shake256", NewExpanderSHAKE256, shake256, "abc", "b39e493867e2767216792abce1f2676c197c0692aed061560ead251821808e07"},
		{"shake256", NewExpanderSHAKE256, shake256, "abcdef0123456789", "245389cf44a13f0e70af8665fe5337ec2dcd138890bb7901c4ad9cfceb054b65"},
	}
	for _, tt := range tests {
		r, err := tt.new([]byte(tt.msg), tt.dst, 0x20)
		got := readAllExpander(t, r, err)
		if hex.EncodeToString(got) != tt.want {
			t.Errorf("%s msg %q: got %x, want %s", tt.name, tt.msg, got, tt.want)
		}
	}
}

func TestHashToFp2MatchesGnark(t *testing.T) {
	dst := []byte("QUUX-V01-CS02-with-BLS12381G2_XMD:SHA-256_SSWU_RO_")
	for _, msg := range []string{"", "abc", "abcdef0123456789"} {
		got, err := HashToFp2([]byte(msg), dst, 2)
		if err != nil {
			t.Fatal(err)
		}
		want, err := fp.Hash([]byte(msg), dst, 4)
		if err != nil {
			t.Fatal(err)
		}
		for i := range got {
			if !fpEqual(&got[i].C0, &want[2*i]).Bool() || !fpEqual(&got[i].C1, &want[2*i+1]).Bool() {
				t.Errorf("msg %q element %d mismatch", msg, i)
			}
		}
	}
}
