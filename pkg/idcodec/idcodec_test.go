package idcodec

import "testing"

func sampleID() [32]byte {
	var id [32]byte
	for i := range id {
		id[i] = byte(i * 7 % 251)
	}
	return id
}

func TestRoundTripAllForms(t *testing.T) {
	id := sampleID()

	hyphenated := Encode(id)
	urn := EncodeURN(id)
	unhyphenated := hyphenated
	unhyphenated = stripHyphens(unhyphenated[:len(unhyphenated)-len(mnemonic(id))-1])

	forms := []string{hyphenated, urn, unhyphenated, URNPrefix + unhyphenated}
	for _, f := range forms {
		got, err := Parse(f)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", f, err)
		}
		if got != id {
			t.Fatalf("Parse(%q) = %x, want %x", f, got, id)
		}
	}
}

func TestParseRejectsBadSeparator(t *testing.T) {
	id := sampleID()
	payload := stripHyphens(Encode(id))
	bad := payload[:4] + "_" + payload[4:]
	if _, err := Parse("scheme://" + bad); err == nil {
		t.Fatal("expected parse error for unrecognized scheme separator")
	}
}

func stripHyphens(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '-' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
