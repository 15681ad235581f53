package platform

import "testing"

func TestResolveHost(t *testing.T) {
	tests := []struct {
		name    string
		hostID  string
		want    Platform
		wantErr bool
	}{
		{name: "darwin", hostID: "darwin23.0", want: Mac},
		{name: "linux gnu", hostID: "linux-gnu", want: Linux},
		{name: "bare linux", hostID: "linux", want: Linux},
		{name: "windows", hostID: "windows", want: Win},
		{name: "msys", hostID: "msys", want: Win},
		{name: "mingw", hostID: "mingw64", want: Win},
		{name: "cygwin", hostID: "cygwin", want: Win},
		{name: "uppercase darwin", hostID: "Darwin", want: Mac},
		{name: "freebsd unsupported", hostID: "freebsd", wantErr: true},
		{name: "empty", hostID: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveHost(tt.hostID)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ResolveHost(%q) expected error, got %q", tt.hostID, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveHost(%q) failed: %v", tt.hostID, err)
			}
			if got != tt.want {
				t.Errorf("ResolveHost(%q) = %q, want %q", tt.hostID, got, tt.want)
			}
		})
	}
}

func TestNewTargetDefaults(t *testing.T) {
	target := NewTarget(Linux, "", "")
	if target.OS != "linux" {
		t.Errorf("expected target OS linux, got %s", target.OS)
	}
	if target.CPU != DefaultCPU {
		t.Errorf("expected target CPU %s, got %s", DefaultCPU, target.CPU)
	}
}

func TestNewTargetOverrides(t *testing.T) {
	target := NewTarget(Linux, "android", "arm64")
	if target.Platform != Linux {
		t.Errorf("expected platform linux, got %s", target.Platform)
	}
	if target.OS != "android" || target.CPU != "arm64" {
		t.Errorf("expected android/arm64, got %s/%s", target.OS, target.CPU)
	}
}

func TestDebianArch(t *testing.T) {
	tests := []struct {
		cpu  string
		want string
	}{
		{"x64", "amd64"},
		{"x86", "i386"},
		{"arm", "armhf"},
		{"arm64", "arm64"},
		{"riscv64", "riscv64"}, // unknown passes through
	}
	for _, tt := range tests {
		if got := DebianArch(tt.cpu); got != tt.want {
			t.Errorf("DebianArch(%q) = %q, want %q", tt.cpu, got, tt.want)
		}
	}
}
