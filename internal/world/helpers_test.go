package world

import (
	"testing"
	"time"

	"github.com/l1jgo/carnage/internal/core/object"
	"github.com/l1jgo/carnage/internal/data"
	"github.com/l1jgo/carnage/internal/geom"
	"github.com/l1jgo/carnage/internal/physics"
	"github.com/l1jgo/carnage/internal/scripting"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const frame = 16 * time.Millisecond

const testStyleYAML = `
objects:
  - name: null
    class: none
  - name: bullet
    class: projectile
    animation: {frames: 2, fps: 24}
  - name: ricochet
    class: decoration
    animation: {frames: 4, fps: 24}
  - name: blood
    class: decoration
    animation: {frames: 1, fps: 1}
  - name: hydrant
    class: obstacle
    destructible: true
    hitpoints: 5
    width: 0.5
    height: 0.5
    depth: 0.5
  - name: smoke
    class: decoration
    animation: {frames: 8, fps: 12}
    life_duration: 2
  - name: fire
    class: decoration
    animation: {frames: 6, fps: 18}
  - name: crate
    class: powerup
  - name: blast
    class: explosion
    animation: {frames: 3, fps: 12}
  - name: bollard
    class: obstacle
vehicles:
  - {model: 0, name: beast gts, class: standard_car, seats: 2}
  - {model: 5, name: bus, class: bus, seats: 8}
weapons:
  - {id: 0, name: fists, damage: punch, base_damage: 1, default_ammo: -1}
  - {id: 1, name: pistol, damage: bullet, base_damage: 2, projectile_object: 1, projectile_hit_effect: 2, projectile_size: 0.1, projectile_speed: 20, default_ammo: 40}
  - {id: 3, name: flamethrower, damage: fire, base_damage: 1, projectile_object: 1, projectile_size: 0.3, projectile_speed: 8}
  - {id: 4, name: rocket launcher, damage: explosion, base_damage: 10, projectile_object: 1, projectile_hit_effect: 2, projectile_size: 0.2, projectile_speed: 16}
effects:
  first_blood: 3
  explosion: 8
  explosion_smoke: 5
  pedestrian_fire: 6
`

const (
	objBullet   = 1
	objRicochet = 2
	objBlood    = 3
	objHydrant  = 4
	objSmoke    = 5
	objFire     = 6
	objCrate    = 7
	objBollard  = 9

	weaponFists  = 0
	weaponPistol = 1
	weaponFlamer = 3
	weaponRocket = 4
)

func newTestManager(t *testing.T, mutate ...func(*Options)) *Manager {
	t.Helper()
	style, err := data.ParseStyleData([]byte(testStyleYAML))
	require.NoError(t, err)
	rules, err := scripting.NewEngine("", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(rules.Close)

	opts := Options{
		Style:   style,
		Physics: physics.NewWorld(60, zap.NewNop()),
		Rules:   rules,
		Log:     zap.NewNop(),
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	m, err := NewManager(opts)
	require.NoError(t, err)
	return m
}

func physicsOf(m *Manager) *physics.World {
	return m.physics.(*physics.World)
}

// probe is a scriptable object used to observe the update and teardown
// order of the registry.
type probe struct {
	Base
	updates   int
	lastDT    time.Duration
	onUpdate  func()
	onRelease func()
}

func addProbe(t *testing.T, m *Manager) *probe {
	t.Helper()
	id, err := m.ids.Next()
	require.NoError(t, err)
	p := &probe{}
	p.init(m, p, id, object.ClassNone, 0)
	m.register(p)
	return p
}

func (p *probe) Position() geom.Vec3             { return geom.Vec3{X: 1000} }
func (p *probe) ReceiveDamage(_ DamageInfo) bool { return false }

func (p *probe) DebugDraw(_ DebugRenderer) {}

func (p *probe) UpdateFrame(dt time.Duration) {
	p.updates++
	p.lastDT = dt
	if p.onUpdate != nil {
		p.onUpdate()
	}
}

func (p *probe) release(_ *Manager) error {
	if p.onRelease != nil {
		p.onRelease()
	}
	return nil
}
