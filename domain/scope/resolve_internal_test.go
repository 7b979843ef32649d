package scope

import (
	"context"
	"errors"
	"testing"
)

// Descriptors built by hand with a kind/source combination no constructor
// produces must fail as an invariant violation, not as missing context.
func TestResolveInvalidDescriptor(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
	}{
		{"ambient group", Descriptor{kind: KindGroup, src: sourceAmbient}},
		{"ambient instance", Descriptor{kind: KindInstance, src: sourceAmbient}},
		{"sourceless tenant", Descriptor{kind: KindTenant, src: sourceNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.d.Resolve(context.Background())
			if err == nil {
				t.Fatal("Resolve should fail for an invalid descriptor")
			}
			if errors.Is(err, ErrContextMissing) {
				t.Errorf("err = %v, should not report an invalid descriptor as missing context", err)
			}
		})
	}
}
