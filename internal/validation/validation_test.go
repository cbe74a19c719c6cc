package validation

import (
	"testing"
)

func TestNormalizeClusterName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already normalized", "ocp4-prod", "ocp4-prod"},
		{"uppercase", "OCP4-PROD", "ocp4-prod"},
		{"mixed case", "Ocp4-Prod", "ocp4-prod"},
		{"surrounding whitespace", "  ocp4-prod  ", "ocp4-prod"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeClusterName(tt.in); got != tt.want {
				t.Errorf("NormalizeClusterName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateClusterName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"valid", "ocp4-prod", false},
		{"valid with numbers", "ocp4-prod01", false},
		{"valid uppercase normalized", "OCP4-Prod", false},
		{"valid with whitespace", " ocp4-prod ", false},
		{"missing prefix", "prod-cluster", true},
		{"wrong prefix", "ocp3-prod", true},
		{"too short", "oc", true},
		{"trailing hyphen", "ocp4-prod-", true},
		{"contains underscore", "ocp4-prod_1", true},
		{"contains space", "ocp4-prod east", true},
		{"contains dot", "ocp4-prod.east", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateClusterName(tt.in, "ocp4-")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateClusterName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestValidateClusterNameReturnsNormalized(t *testing.T) {
	got, err := ValidateClusterName("  OCP4-East  ", "ocp4-")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ocp4-east" {
		t.Errorf("normalized name = %q, want %q", got, "ocp4-east")
	}
}

func TestValidateCIDR(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"valid /24", "10.1.2.0/24", false},
		{"valid /32", "10.1.2.3/32", false},
		{"valid ipv6", "2001:db8::/64", false},
		{"no mask", "10.1.2.0", true},
		{"bad octet", "10.1.2.300/24", true},
		{"not an address", "cluster-network", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCIDR(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCIDR(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSegments(t *testing.T) {
	if err := ValidateSegments(nil); err == nil {
		t.Error("expected error for empty segment list")
	}
	if err := ValidateSegments([]string{"10.1.0.0/24", "bogus"}); err == nil {
		t.Error("expected error for list containing invalid CIDR")
	}
	if err := ValidateSegments([]string{"10.1.0.0/24", "10.2.0.0/24"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHasClusterPrefix(t *testing.T) {
	if !HasClusterPrefix("OCP4-prod", "ocp4-") {
		t.Error("expected prefix match after normalization")
	}
	if HasClusterPrefix("legacy-prod", "ocp4-") {
		t.Error("did not expect prefix match")
	}
}
