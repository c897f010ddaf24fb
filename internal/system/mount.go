package system

import (
	"time"

	"github.com/l1jgo/arena/internal/core/ecs"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
)

// MountSystem keeps weapons on their owner's muzzle after the owner moved
// and condemns weapons whose owner is gone. Phase: Motion, registered after
// MotionSystem.
type MountSystem struct {
	state *world.State
}

func NewMountSystem(state *world.State) *MountSystem {
	return &MountSystem{state: state}
}

func (s *MountSystem) Phase() coresys.Phase { return coresys.PhaseMotion }

func (s *MountSystem) Update(_ time.Duration) {
	st := s.state
	for id := range st.WeaponView.All() {
		w := st.Weapons.MustGet(id)
		owner, err := ecs.Deref(st.World, st.Transforms, w.Owner)
		if err != nil {
			w.Shooting = false
			st.World.Destroy(id)
			continue
		}
		*st.Transforms.MustGet(id) = world.MuzzleTransform(owner, w.Muzzle)
	}
}
