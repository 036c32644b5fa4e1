package ast

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestArtifactRoundTrip(t *testing.T) {
	tree := Seq{Parts: []Node{
		Anchor{At: AnchorStart},
		Group{Capturing: true, Name: "w", Body: Quant{
			Child: CharClass{Items: []ClassItem{
				ClassRange{From: 'a', To: 'z'},
				ClassEscape{Kind: 'd'},
				ClassLit{Ch: '_'},
			}},
			Min: 1, Max: Unbounded, Mode: Lazy,
		}},
		Backref{Name: "w"},
		Backref{Index: 1},
		Look{Dir: LookBehind, Negated: true, Body: Lit{Value: "x"}},
		Anchor{At: AnchorAbsoluteEnd},
	}}
	flags := Flags{IgnoreCase: true, Extended: true}

	data, err := json.Marshal(EncodeArtifact(flags, tree))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	gotFlags, gotRoot, err := DecodeArtifact(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if gotFlags != flags {
		t.Fatalf("flags %+v, want %+v", gotFlags, flags)
	}
	// ClassRange.Pos is parser bookkeeping and does not travel through the
	// artifact, so the decoded tree equals the original only if Pos is zero.
	if !reflect.DeepEqual(gotRoot, tree) {
		t.Fatalf("tree mismatch:\ngot  %#v\nwant %#v", gotRoot, tree)
	}
}

func TestArtifactBackrefIndexIsString(t *testing.T) {
	d := NodeDict(Backref{Index: 3})
	if d["byIndex"] != "3" {
		t.Fatalf("byIndex %#v, want the string \"3\"", d["byIndex"])
	}
}

func TestArtifactQuantInfSentinel(t *testing.T) {
	d := NodeDict(Quant{Child: Dot{}, Min: 2, Max: Unbounded})
	if d["max"] != "Inf" {
		t.Fatalf("max %#v, want \"Inf\"", d["max"])
	}

	n, err := DecodeNode(d)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if q := n.(Quant); q.Max != Unbounded || q.Min != 2 {
		t.Fatalf("decoded %#v", q)
	}
}

func TestArtifactVersionStamp(t *testing.T) {
	art := EncodeArtifact(Flags{}, Lit{Value: "a"})
	if art.Version != ArtifactVersion {
		t.Fatalf("version %q", art.Version)
	}
	if art.Warnings == nil || art.Errors == nil {
		t.Fatal("warnings/errors must serialize as empty lists, not null")
	}
}

func TestDecodeArtifactErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{"},
		{"missing root", `{"version":"1.0.0","flags":{}}`},
		{"unknown kind", `{"version":"1.0.0","flags":{},"root":{"kind":"Wat"}}`},
		{"lit without value", `{"version":"1.0.0","flags":{},"root":{"kind":"Lit"}}`},
		{"quant without child", `{"version":"1.0.0","flags":{},"root":{"kind":"Quant","min":0,"max":1}}`},
		{"bad anchor", `{"version":"1.0.0","flags":{},"root":{"kind":"Anchor","at":"Sideways"}}`},
		{"bad look dir", `{"version":"1.0.0","flags":{},"root":{"kind":"Look","dir":"Up","body":{"kind":"Dot"}}}`},
		{"backref without ref", `{"version":"1.0.0","flags":{},"root":{"kind":"Backref"}}`},
		{"fractional min", `{"version":"1.0.0","flags":{},"root":{"kind":"Quant","min":1.5,"max":2,"child":{"kind":"Dot"}}}`},
	}
	for _, tt := range tests {
		_, _, err := DecodeArtifact([]byte(tt.data))
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !errors.Is(err, ErrInterchange) {
			t.Errorf("%s: error %v is not ErrInterchange", tt.name, err)
		}
	}
}

func TestDecodeArtifactAcceptsNumericIndex(t *testing.T) {
	// lenient on input even though output serializes indices as strings
	data := `{"version":"1.0.0","flags":{},"root":{"kind":"Backref","byIndex":2}}`
	_, root, err := DecodeArtifact([]byte(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := root.(Backref); b.Index != 2 {
		t.Fatalf("index %d", b.Index)
	}
}
