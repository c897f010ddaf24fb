package world

import "github.com/l1jgo/arena/internal/component"

// Presentation kinds handed to Presenter.Acquire.
const (
	KindShip     = "ship"
	KindWeapon   = "weapon"
	KindBullet   = "bullet"
	KindMunition = "munition"
)

// Presenter mirrors entities into an external visual layer. The simulation
// only pushes transforms; it never reads visual state back.
type Presenter interface {
	Acquire(kind string, assetID int) uint64
	Sync(handle uint64, t component.Transform)
	Release(handle uint64)
}

// NopPresenter hands out sequential handles and draws nothing.
type NopPresenter struct {
	next uint64
}

func (p *NopPresenter) Acquire(string, int) uint64 {
	p.next++
	return p.next
}

func (*NopPresenter) Sync(uint64, component.Transform) {}
func (*NopPresenter) Release(uint64)                   {}
