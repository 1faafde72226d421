package world

import (
	"testing"

	"github.com/l1jgo/carnage/internal/core/event"
	"github.com/l1jgo/carnage/internal/core/object"
	"github.com/l1jgo/carnage/internal/geom"
	"github.com/l1jgo/carnage/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerRequiresCollaborators(t *testing.T) {
	_, err := NewManager(Options{})
	assert.ErrorIs(t, err, ErrMissingCollaborator)
}

func TestMarkedPedestrianIsHiddenThenReleased(t *testing.T) {
	m := newTestManager(t)
	before := m.PoolOccupancy(object.ClassPedestrian)

	ped, err := m.CreatePedestrian(geom.Vec3{}, 0, 0)
	require.NoError(t, err)
	assert.Same(t, ped, m.GetPedestrianByID(ped.ID()))
	assert.Equal(t, before+1, m.PoolOccupancy(object.ClassPedestrian))

	ped.MarkForDeletion()
	assert.Nil(t, m.GetPedestrianByID(ped.ID()))
	assert.Nil(t, m.GetGameObjectByID(ped.ID()))
	// still physically registered until the flush
	assert.Equal(t, 1, m.ObjectCount())

	require.NoError(t, m.DestroyMarkedForDeletionObjects())
	assert.Equal(t, before, m.PoolOccupancy(object.ClassPedestrian))
	assert.Zero(t, m.ObjectCount())
	assert.Empty(t, m.Pedestrians())
	assert.Zero(t, physicsOf(m).Count())
}

func TestMarkForDeletionIsIdempotent(t *testing.T) {
	m := newTestManager(t)
	car, err := m.CreateVehicleByModel(geom.Vec3{}, 0, 0)
	require.NoError(t, err)

	car.MarkForDeletion()
	m.MarkForDeletion(car)
	assert.Equal(t, 1, m.PendingDeletionCount())
	assert.True(t, car.IsMarkedForDeletion())
}

func TestFlushRemovesEveryMarkedObject(t *testing.T) {
	m := newTestManager(t)
	var ids []object.ID
	for i := 0; i < 4; i++ {
		ped, err := m.CreatePedestrian(geom.Vec3{X: float32(i)}, 0, i)
		require.NoError(t, err)
		ids = append(ids, ped.ID())
	}
	keep, err := m.CreateVehicleByModel(geom.Vec3{}, 0, 5)
	require.NoError(t, err)

	for _, ped := range m.Pedestrians() {
		ped.MarkForDeletion()
	}
	require.NoError(t, m.DestroyMarkedForDeletionObjects())

	assert.Zero(t, m.PendingDeletionCount())
	for _, id := range ids {
		assert.Nil(t, m.GetGameObjectByID(id))
	}
	assert.Equal(t, []GameObject{keep}, m.AllObjects())
}

func TestCreateThenDestroyAllEmptiesPools(t *testing.T) {
	m := newTestManager(t)
	const n = 100
	for i := 0; i < n; i++ {
		_, err := m.CreateVehicleByModel(geom.Vec3{X: float32(i)}, 0, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, n, m.PoolOccupancy(object.ClassVehicle))
	assert.Equal(t, n, physicsOf(m).Count())

	require.NoError(t, m.DestroyAllObjects())
	for _, c := range object.PooledClasses {
		assert.Zero(t, m.PoolOccupancy(c), c.String())
	}
	assert.Zero(t, physicsOf(m).Count())
}

func TestUpdatePassVisitsObjectsCreatedMidPass(t *testing.T) {
	m := newTestManager(t)
	visited := 0
	var late *probe
	first := addProbe(t, m)
	first.onUpdate = func() {
		visited++
		if late == nil {
			late = addProbe(t, m)
			late.onUpdate = func() { visited++ }
		}
	}
	second := addProbe(t, m)
	second.onUpdate = func() { visited++ }

	m.UpdateObjects(frame)
	assert.Equal(t, 3, visited)
	require.NotNil(t, late)
	assert.Equal(t, 1, late.updates)

	// creation order is the update order
	objs := m.AllObjects()
	assert.Equal(t, []GameObject{first, second, late}, objs)
}

func TestObjectsCreatedMidPassGetZeroLengthFirstFrame(t *testing.T) {
	m := newTestManager(t)
	var late *Pedestrian
	spawner := addProbe(t, m)
	spawner.onUpdate = func() {
		if late != nil {
			return
		}
		var err error
		late, err = m.CreatePedestrian(geom.Vec3{X: 3}, 0, 0)
		require.NoError(t, err)
	}
	witness := addProbe(t, m)

	m.UpdateObjects(frame)
	require.NotNil(t, late)
	assert.Equal(t, frame, spawner.lastDT)
	assert.Equal(t, frame, witness.lastDT)
	assert.Zero(t, late.StateTime())

	m.UpdateObjects(frame)
	assert.Equal(t, frame, late.StateTime())
}

func TestStaleReferenceDoesNotBlockFlush(t *testing.T) {
	m := newTestManager(t)
	ped, err := m.CreatePedestrian(geom.Vec3{}, 0, 0)
	require.NoError(t, err)
	ped.MarkForDeletion()
	require.NoError(t, m.DestroyMarkedForDeletionObjects())

	// ped now points at released pool storage
	m.MarkForDeletion(ped)
	ped.MarkForDeletion()
	assert.Zero(t, m.PendingDeletionCount())

	other := newTestManager(t)
	foreign, err := other.CreatePedestrian(geom.Vec3{}, 0, 0)
	require.NoError(t, err)
	m.MarkForDeletion(foreign)
	assert.Zero(t, m.PendingDeletionCount())
	assert.False(t, foreign.IsMarkedForDeletion())

	for i := 0; i < 3; i++ {
		require.NoError(t, m.UpdateFrame(frame))
	}
	assert.Zero(t, m.PoolOccupancy(object.ClassPedestrian))
}

func TestFlushDropsUnregisteredQueueEntries(t *testing.T) {
	m := newTestManager(t)
	gone := addProbe(t, m)
	kept := addProbe(t, m)
	gone.MarkForDeletion()
	kept.MarkForDeletion()
	// removed from the registry behind the queue's back
	m.allObjects = eraseElement(m.allObjects, GameObject(gone))

	require.NoError(t, m.DestroyMarkedForDeletionObjects())
	assert.Zero(t, m.PendingDeletionCount())
	assert.Zero(t, m.ObjectCount())
}

func TestMarkedObjectsStillUpdatedUntilFlush(t *testing.T) {
	m := newTestManager(t)
	p := addProbe(t, m)
	p.onUpdate = func() { p.MarkForDeletion() }

	m.UpdateObjects(frame)
	m.UpdateObjects(frame)
	assert.Equal(t, 2, p.updates)

	require.NoError(t, m.UpdateFrame(frame))
	assert.Equal(t, 2, p.updates)
	assert.Zero(t, m.ObjectCount())
}

func TestIDsAreUniqueAndNonZero(t *testing.T) {
	m := newTestManager(t)
	seen := make(map[object.ID]bool)
	record := func(obj GameObject, err error) {
		require.NoError(t, err)
		assert.False(t, obj.ID().IsNull())
		assert.False(t, seen[obj.ID()], "duplicate id %d", obj.ID())
		seen[obj.ID()] = true
	}
	style := m.Style()
	for round := 0; round < 3; round++ {
		ped, err := m.CreatePedestrian(geom.Vec3{}, 0, 0)
		record(ped, err)
		car, err := m.CreateVehicleByModel(geom.Vec3{}, 0, 0)
		record(car, err)
		proj, err := m.CreateProjectile(geom.Vec3{}, 0, nil)
		record(proj, err)
		dec, err := m.CreateDecoration(geom.Vec3{}, 0, style.Object(objBlood))
		record(dec, err)
		obs, err := m.CreateObstacle(geom.Vec3{}, 0, style.Object(objBollard))
		record(obs, err)
		exp, err := m.CreateExplosion(geom.Vec3{X: 100})
		record(exp, err)

		// recycled pool slots must not recycle identity
		require.NoError(t, m.DestroyAllObjects())
	}
	assert.Len(t, seen, 18)
	// each explosion teardown also left a smoke decoration behind
	assert.Equal(t, object.ID(21), m.ids.Last())
}

func TestLookupByWrongKindReturnsNil(t *testing.T) {
	m := newTestManager(t)
	ped, err := m.CreatePedestrian(geom.Vec3{}, 0, 0)
	require.NoError(t, err)

	assert.Nil(t, m.GetVehicleByID(ped.ID()))
	assert.Nil(t, m.GetDecorationByID(ped.ID()))
	assert.Nil(t, m.GetPedestrianByID(object.NullID))
	assert.Nil(t, m.GetPedestrianByID(ped.ID()+100))
}

func TestProjectileContactSpawnsHitEffect(t *testing.T) {
	m := newTestManager(t)
	pistol := m.Style().Weapon(weaponPistol)
	proj, err := m.CreateProjectile(geom.Vec3{}, 0, pistol)
	require.NoError(t, err)

	contact := geom.Vec3{X: 3, Y: 1, Z: 2}
	proj.SetContactDetected(contact, nil)
	m.UpdateObjects(frame)

	decorations := m.Decorations()
	require.Len(t, decorations, 1)
	hit := decorations[0]
	assert.Equal(t, contact, hit.Position())
	assert.Equal(t, 1, hit.LifeDuration())
	assert.Equal(t, DrawOrderProjectiles, hit.DrawOrder())
	assert.Same(t, m.Style().Object(objRicochet), hit.Descriptor())

	assert.True(t, proj.IsMarkedForDeletion())
	assert.Nil(t, m.GetProjectileByID(proj.ID()))
	assert.Empty(t, m.Explosions())
}

func TestDestroyAllObjectsIncludesTeardownSpawns(t *testing.T) {
	m := newTestManager(t)
	_, err := m.CreateExplosion(geom.Vec3{})
	require.NoError(t, err)

	require.NoError(t, m.DestroyAllObjects())
	assert.Zero(t, m.ObjectCount())
	assert.Empty(t, m.Decorations())
	assert.Zero(t, m.PoolOccupancy(object.ClassDecoration))
	// explosion and its smoke
	assert.Equal(t, object.ID(2), m.ids.Last())
}

func TestTeardownRunawayIsBounded(t *testing.T) {
	m := newTestManager(t, func(o *Options) { o.MaxTeardownChain = 3 })

	var respawn func()
	respawn = func() { addProbe(t, m).onRelease = respawn }
	addProbe(t, m).onRelease = respawn

	err := m.DestroyAllObjects()
	assert.ErrorIs(t, err, ErrTeardownRunaway)
	assert.Equal(t, 1, m.ObjectCount())
}

func TestTeardownChainWithinBudgetSettles(t *testing.T) {
	m := newTestManager(t, func(o *Options) { o.MaxTeardownChain = 3 })

	remaining := 3
	var spawn func()
	spawn = func() {
		if remaining == 0 {
			return
		}
		remaining--
		q := addProbe(t, m)
		q.onRelease = spawn
		q.MarkForDeletion()
	}
	p := addProbe(t, m)
	p.onRelease = spawn
	p.MarkForDeletion()

	require.NoError(t, m.DestroyMarkedForDeletionObjects())
	assert.Zero(t, m.ObjectCount())
	assert.Zero(t, m.PendingDeletionCount())
}

func TestCreationPreconditions(t *testing.T) {
	m := newTestManager(t, func(o *Options) { o.Style = nil })
	style := newTestManager(t).Style()

	_, err := m.CreateVehicle(geom.Vec3{}, 0, &style.Vehicles[0])
	assert.ErrorIs(t, err, ErrStyleNotLoaded)
	_, err = m.CreateDecoration(geom.Vec3{}, 0, style.Object(objBlood))
	assert.ErrorIs(t, err, ErrStyleNotLoaded)
	_, err = m.CreateObstacle(geom.Vec3{}, 0, style.Object(objHydrant))
	assert.ErrorIs(t, err, ErrStyleNotLoaded)

	// kinds without descriptors still work
	_, err = m.CreatePedestrian(geom.Vec3{}, 0, 0)
	assert.NoError(t, err)

	m = newTestManager(t)
	_, err = m.CreateVehicle(geom.Vec3{}, 0, nil)
	assert.ErrorIs(t, err, ErrNilDescriptor)
	_, err = m.CreateDecoration(geom.Vec3{}, 0, nil)
	assert.ErrorIs(t, err, ErrNilDescriptor)
	_, err = m.CreateObstacle(geom.Vec3{}, 0, m.Style().Object(objBlood))
	assert.ErrorIs(t, err, ErrClassMismatch)
	_, err = m.CreateVehicleByModel(geom.Vec3{}, 0, 77)
	assert.ErrorIs(t, err, ErrUnknownVehicleModel)
	assert.Zero(t, m.ObjectCount())
}

func TestPoolExhaustionFailsCreation(t *testing.T) {
	bus := event.NewBus()
	m := newTestManager(t, func(o *Options) {
		o.Pools.Projectiles = 1
		o.Bus = bus
	})
	_, err := m.CreateProjectile(geom.Vec3{}, 0, nil)
	require.NoError(t, err)

	proj, err := m.CreateProjectile(geom.Vec3{}, 0, nil)
	assert.Nil(t, proj)
	assert.ErrorIs(t, err, object.ErrPoolExhausted)
	assert.Equal(t, 1, m.ObjectCount())

	var failed []object.Class
	event.Subscribe(bus, func(ev event.CreationFailed) { failed = append(failed, ev.Class) })
	bus.SwapBuffers()
	bus.DispatchAll()
	assert.Equal(t, []object.Class{object.ClassProjectile}, failed)
}

func TestDestroyUnregisteredObject(t *testing.T) {
	m := newTestManager(t)
	other := newTestManager(t)
	ped, err := other.CreatePedestrian(geom.Vec3{}, 0, 0)
	require.NoError(t, err)

	assert.ErrorIs(t, m.DestroyGameObject(ped), ErrNotRegistered)
	assert.ErrorIs(t, m.DestroyGameObject(nil), ErrNotRegistered)

	require.NoError(t, other.DestroyGameObject(ped))
	assert.ErrorIs(t, other.DestroyGameObject(ped), ErrNotRegistered)
}

func TestLifecycleEvents(t *testing.T) {
	bus := event.NewBus()
	m := newTestManager(t, func(o *Options) { o.Bus = bus })

	var created, marked, destroyed []object.ID
	event.Subscribe(bus, func(ev event.ObjectCreated) { created = append(created, ev.ID) })
	event.Subscribe(bus, func(ev event.ObjectMarked) { marked = append(marked, ev.ID) })
	event.Subscribe(bus, func(ev event.ObjectDestroyed) { destroyed = append(destroyed, ev.ID) })

	ped, err := m.CreatePedestrian(geom.Vec3{}, 0, 0)
	require.NoError(t, err)
	ped.MarkForDeletion()
	ped.MarkForDeletion()
	id := ped.ID()
	require.NoError(t, m.DestroyMarkedForDeletionObjects())
	assert.Equal(t, 3, bus.Pending())

	bus.SwapBuffers()
	bus.DispatchAll()
	assert.Equal(t, []object.ID{id}, created)
	assert.Equal(t, []object.ID{id}, marked)
	assert.Equal(t, []object.ID{id}, destroyed)
}

func TestStatsAndDebugDraw(t *testing.T) {
	m := newTestManager(t)
	_, err := m.CreatePedestrian(geom.Vec3{}, 0, 0)
	require.NoError(t, err)
	car, err := m.CreateVehicleByModel(geom.Vec3{X: 4}, 0, 0)
	require.NoError(t, err)
	_, err = m.CreateDecoration(geom.Vec3{}, 0, m.Style().Object(objBlood))
	require.NoError(t, err)
	car.MarkForDeletion()

	s := m.Stats()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.PendingDeletion)
	assert.Equal(t, 1, s.Live[object.ClassPedestrian])
	assert.Equal(t, 1, s.Pooled[object.ClassVehicle])
	assert.Zero(t, s.Live[object.ClassExplosion])

	rec := render.NewRecorder()
	m.DebugDraw(rec)
	// decorations draw nothing
	require.Equal(t, 2, rec.Len())
	assert.Equal(t, render.ShapeSphere, rec.Commands()[0].Kind)
	assert.Equal(t, render.ShapeCube, rec.Commands()[1].Kind)
}

func TestShutdownReleasesEverything(t *testing.T) {
	m := newTestManager(t)
	ped, err := m.CreatePedestrian(geom.Vec3{}, 0, 0)
	require.NoError(t, err)
	car, err := m.CreateVehicleByModel(geom.Vec3{}, 0, 5)
	require.NoError(t, err)
	require.NoError(t, ped.EnterCar(car, CarSeatDriver))
	_, err = m.CreateExplosion(geom.Vec3{X: 50})
	require.NoError(t, err)

	require.NoError(t, m.Shutdown())
	assert.Zero(t, m.ObjectCount())
	for _, c := range object.PooledClasses {
		assert.Zero(t, m.PoolOccupancy(c), c.String())
	}
	assert.Zero(t, physicsOf(m).Count())
}
