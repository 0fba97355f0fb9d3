package entity

import "testing"

func TestDecodeSegmentPayload(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   SegmentPayload
		wantOK bool
	}{
		{
			"canonical keys",
			`{"window_title":"main.go","process_name":"code.exe","summary":"editing"}`,
			SegmentPayload{WindowTitle: "main.go", ProcessName: "code.exe", Summary: "editing"},
			true,
		},
		{
			"camelCase agent schema",
			`{"windowTitle":"main.go","processName":"code.exe"}`,
			SegmentPayload{WindowTitle: "main.go", ProcessName: "code.exe"},
			true,
		},
		{
			"oldest schema used title and app",
			`{"title":"main.go","app":"code.exe","description":"editing"}`,
			SegmentPayload{WindowTitle: "main.go", ProcessName: "code.exe", Summary: "editing"},
			true,
		},
		{
			"canonical key wins over alias",
			`{"window_title":"main.go","title":"other.go"}`,
			SegmentPayload{WindowTitle: "main.go"},
			true,
		},
		{
			"missing fields default empty",
			`{"summary":"thinking"}`,
			SegmentPayload{Summary: "thinking"},
			true,
		},
		{"empty string", "", SegmentPayload{}, false},
		{"not json", "window: main.go", SegmentPayload{}, false},
		{"json but not an object", `["main.go"]`, SegmentPayload{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeSegmentPayload(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSegmentPayloadEncodeRoundTrip(t *testing.T) {
	p := SegmentPayload{WindowTitle: "report.py", ProcessName: "pycharm64.exe", Summary: "data export"}

	decoded, ok := DecodeSegmentPayload(p.Encode())
	if !ok {
		t.Fatal("encoded payload failed to decode")
	}
	if decoded != p {
		t.Errorf("round trip changed payload: %+v -> %+v", p, decoded)
	}
}
