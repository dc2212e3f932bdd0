package policy

import (
	"testing"

	"github.com/quotekit/cpq/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestLifecyclePolicy(t *testing.T) {
	p := LifecyclePolicy{}

	cases := []struct {
		name       string
		locked     bool
		active     bool
		editable   bool
		deletable  bool
		lockable   bool
		unlockable bool
		activable  bool
	}{
		{name: "draft", editable: true, deletable: true, lockable: true},
		{name: "locked", locked: true, unlockable: true, activable: true},
		{name: "active", locked: true, active: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := &domain.Version{IsLocked: tc.locked, IsActive: tc.active}
			assert.Equal(t, tc.editable, p.IsEditable(v))
			assert.Equal(t, tc.deletable, p.IsDeletable(v))
			assert.Equal(t, tc.lockable, p.IsLockable(v))
			assert.Equal(t, tc.unlockable, p.IsUnlockable(v))
			assert.Equal(t, tc.activable, p.IsActivable(v))
		})
	}
}
