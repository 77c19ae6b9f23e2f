package ipfs

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	cid := "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

	tests := []struct {
		name    string
		raw     string
		gateway string
		want    string
	}{
		{
			name: "https passthrough",
			raw:  "https://example.com/audio.mp3",
			want: "https://example.com/audio.mp3",
		},
		{
			name: "http passthrough",
			raw:  "http://example.com/audio.mp3",
			want: "http://example.com/audio.mp3",
		},
		{
			name: "ipfs scheme rewritten",
			raw:  "ipfs://" + cid,
			want: DefaultGateway + cid,
		},
		{
			name:    "ipfs scheme with configured gateway",
			raw:     "ipfs://" + cid,
			gateway: "https://gateway.example/ipfs/",
			want:    "https://gateway.example/ipfs/" + cid,
		},
		{
			name: "bare Qm CID prefixed",
			raw:  cid,
			want: DefaultGateway + cid,
		},
		{
			name: "bare 46-char CID prefixed",
			raw:  "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3o",
			want: DefaultGateway + "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3o",
		},
		{
			name: "opaque reference unchanged",
			raw:  "not-a-cid",
			want: "not-a-cid",
		},
		{
			name: "empty stays empty",
			raw:  "",
			want: "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.raw, tc.gateway)
			if got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"https://example.com/a.mp3",
		"ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
		"QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
		"bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3o",
		"opaque-reference",
		"",
	}

	for _, raw := range inputs {
		once := Normalize(raw, "")
		twice := Normalize(once, "")
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", raw, once, twice)
		}
		if once != "" && !strings.HasPrefix(once, "http") && once != raw {
			t.Errorf("Normalize(%q) = %q: rewritten output must be http(s)", raw, once)
		}
	}
}

func TestNormalizeThumbnail(t *testing.T) {
	if got := NormalizeThumbnail("", "", ""); got != DefaultPlaceholder {
		t.Errorf("empty thumbnail = %q, want placeholder %q", got, DefaultPlaceholder)
	}
	if got := NormalizeThumbnail("", "", "https://cdn.example/blank.png"); got != "https://cdn.example/blank.png" {
		t.Errorf("empty thumbnail with configured placeholder = %q", got)
	}
	cid := "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	if got := NormalizeThumbnail(cid, "", ""); got != DefaultGateway+cid {
		t.Errorf("thumbnail CID = %q, want %q", got, DefaultGateway+cid)
	}
}

func TestIsCID(t *testing.T) {
	if !IsCID("QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG") {
		t.Error("expected Qm CID to match")
	}
	if IsCID("Qmshort") {
		t.Error("short string must not match")
	}
	if IsCID("contains/slash-so-not-a-cid-aaaaaaaaaaaaaaaaaaaaa") {
		t.Error("non-alphanumeric string must not match")
	}
}
