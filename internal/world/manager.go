package world

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/l1jgo/carnage/internal/core/event"
	"github.com/l1jgo/carnage/internal/core/object"
	"github.com/l1jgo/carnage/internal/data"
	"github.com/l1jgo/carnage/internal/geom"
	"go.uber.org/zap"
)

var (
	ErrStyleNotLoaded      = errors.New("style data not loaded")
	ErrNilDescriptor       = errors.New("nil object descriptor")
	ErrClassMismatch       = errors.New("descriptor class mismatch")
	ErrUnknownVehicleModel = errors.New("unknown vehicle model")
	ErrNotRegistered       = errors.New("object not registered")
	ErrTeardownRunaway     = errors.New("teardown chain exceeded iteration budget")
	ErrMissingCollaborator = errors.New("missing collaborator")
)

const defaultMaxTeardownChain = 4096

// PoolOptions sets per-kind pool capacities (0 = unbounded) and the chunk
// size used to grow pool storage.
type PoolOptions struct {
	Pedestrians int
	Vehicles    int
	Projectiles int
	Decorations int
	Obstacles   int
	Explosions  int
	ChunkSize   int
}

// Options wires the registry to its collaborators.
type Options struct {
	Style   *data.StyleData
	Physics Physics
	Rules   Rules
	Bus     *event.Bus
	Log     *zap.Logger
	Pools   PoolOptions
	// MaxTeardownChain bounds how many objects teardown side effects may add
	// while a drain loop runs before the loop gives up.
	MaxTeardownChain int
}

// Stats is a snapshot of the registry population.
type Stats struct {
	Live            map[object.Class]int
	Pooled          map[object.Class]int
	PendingDeletion int
	Total           int
}

// Manager is the entity registry: the authority for creating, finding and
// destroying game objects. Each kind is stored in its own pool; the
// registry lists hold non-owning references into pool storage.
// Accessed only from the frame goroutine.
type Manager struct {
	ids     *object.IDAllocator
	style   *data.StyleData
	physics Physics
	rules   Rules
	bus     *event.Bus
	log     *zap.Logger

	pedestriansPool *object.Pool[Pedestrian]
	vehiclesPool    *object.Pool[Vehicle]
	projectilesPool *object.Pool[Projectile]
	decorationsPool *object.Pool[Decoration]
	obstaclesPool   *object.Pool[Obstacle]
	explosionsPool  *object.Pool[Explosion]

	// allObjects is in creation order and is the update iteration order.
	allObjects    []GameObject
	pedestrians   []*Pedestrian
	vehicles      []*Vehicle
	projectiles   []*Projectile
	decorations   []*Decoration
	obstacles     []*Obstacle
	explosions    []*Explosion
	deleteObjects []GameObject

	maxTeardownChain int
	firstBloodDone   bool
	closing          bool
}

// NewManager creates an empty registry with one pool per object kind.
func NewManager(opts Options) (*Manager, error) {
	if opts.Physics == nil {
		return nil, fmt.Errorf("physics: %w", ErrMissingCollaborator)
	}
	if opts.Rules == nil {
		return nil, fmt.Errorf("rules: %w", ErrMissingCollaborator)
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	maxChain := opts.MaxTeardownChain
	if maxChain <= 0 {
		maxChain = defaultMaxTeardownChain
	}
	p := opts.Pools
	return &Manager{
		ids:              object.NewIDAllocator(),
		style:            opts.Style,
		physics:          opts.Physics,
		rules:            opts.Rules,
		bus:              opts.Bus,
		log:              log,
		pedestriansPool:  object.NewPool("pedestrians", p.Pedestrians, p.ChunkSize, (*Pedestrian).dispose),
		vehiclesPool:     object.NewPool("vehicles", p.Vehicles, p.ChunkSize, (*Vehicle).dispose),
		projectilesPool:  object.NewPool("projectiles", p.Projectiles, p.ChunkSize, (*Projectile).dispose),
		decorationsPool:  object.NewPool("decorations", p.Decorations, p.ChunkSize, (*Decoration).dispose),
		obstaclesPool:    object.NewPool("obstacles", p.Obstacles, p.ChunkSize, (*Obstacle).dispose),
		explosionsPool:   object.NewPool("explosions", p.Explosions, p.ChunkSize, (*Explosion).dispose),
		allObjects:       make([]GameObject, 0, 256),
		deleteObjects:    make([]GameObject, 0, 64),
		maxTeardownChain: maxChain,
	}, nil
}

func (m *Manager) Style() *data.StyleData { return m.style }
func (m *Manager) Rules() Rules           { return m.rules }
func (m *Manager) Log() *zap.Logger       { return m.log }

// UpdateFrame runs one frame: destroy everything marked during the previous
// frame, then update every object.
func (m *Manager) UpdateFrame(dt time.Duration) error {
	if err := m.DestroyMarkedForDeletionObjects(); err != nil {
		return err
	}
	m.UpdateObjects(dt)
	return nil
}

// UpdateObjects calls UpdateFrame on every registered object in creation
// order. The bound is re-read each iteration: objects created during the
// pass are appended and updated in the same pass with a zero-length first
// frame. Nothing is destroyed here.
func (m *Manager) UpdateObjects(dt time.Duration) {
	existing := len(m.allObjects)
	for i := 0; i < len(m.allObjects); i++ {
		step := dt
		if i >= existing {
			step = 0
		}
		m.allObjects[i].UpdateFrame(step)
	}
}

// DebugDraw forwards the debug-draw hook to every registered object.
func (m *Manager) DebugDraw(r DebugRenderer) {
	for _, obj := range m.allObjects {
		obj.DebugDraw(r)
	}
}

// --- Creation ---

// CreatePedestrian spawns a pedestrian with the given sprite remap.
func (m *Manager) CreatePedestrian(position geom.Vec3, heading geom.Angle, remap int) (*Pedestrian, error) {
	id, err := m.generateID(object.ClassPedestrian)
	if err != nil {
		return nil, err
	}
	instance, handle, err := m.pedestriansPool.Create()
	if err != nil {
		return nil, m.creationFailed(object.ClassPedestrian, err)
	}
	instance.init(m, instance, id, object.ClassPedestrian, handle)
	instance.remapIndex = remap

	m.register(instance)
	m.pedestrians = append(m.pedestrians, instance)

	instance.Spawn(position, heading)
	m.created(instance)
	return instance, nil
}

// CreateVehicle spawns a vehicle of the given style.
func (m *Manager) CreateVehicle(position geom.Vec3, heading geom.Angle, carStyle *data.VehicleInfo) (*Vehicle, error) {
	if !m.style.IsLoaded() {
		return nil, m.creationFailed(object.ClassVehicle, ErrStyleNotLoaded)
	}
	if carStyle == nil {
		return nil, m.creationFailed(object.ClassVehicle, ErrNilDescriptor)
	}
	id, err := m.generateID(object.ClassVehicle)
	if err != nil {
		return nil, err
	}
	instance, handle, err := m.vehiclesPool.Create()
	if err != nil {
		return nil, m.creationFailed(object.ClassVehicle, err)
	}
	instance.init(m, instance, id, object.ClassVehicle, handle)
	instance.carStyle = carStyle

	m.register(instance)
	m.vehicles = append(m.vehicles, instance)

	instance.Spawn(position, heading)
	m.created(instance)
	return instance, nil
}

// CreateVehicleByModel spawns a vehicle by its model number.
func (m *Manager) CreateVehicleByModel(position geom.Vec3, heading geom.Angle, model int) (*Vehicle, error) {
	if !m.style.IsLoaded() {
		return nil, m.creationFailed(object.ClassVehicle, ErrStyleNotLoaded)
	}
	carStyle := m.style.VehicleByModel(model)
	if carStyle == nil {
		return nil, m.creationFailed(object.ClassVehicle, fmt.Errorf("model %d: %w", model, ErrUnknownVehicleModel))
	}
	return m.CreateVehicle(position, heading, carStyle)
}

// CreateProjectile spawns a projectile. weapon may be nil, in which case the
// projectile disappears on first contact without effects.
func (m *Manager) CreateProjectile(position geom.Vec3, heading geom.Angle, weapon *data.WeaponInfo) (*Projectile, error) {
	id, err := m.generateID(object.ClassProjectile)
	if err != nil {
		return nil, err
	}
	instance, handle, err := m.projectilesPool.Create()
	if err != nil {
		return nil, m.creationFailed(object.ClassProjectile, err)
	}
	instance.init(m, instance, id, object.ClassProjectile, handle)

	m.register(instance)
	m.projectiles = append(m.projectiles, instance)

	instance.Spawn(position, heading, weapon)
	m.created(instance)
	return instance, nil
}

// CreateObstacle spawns an obstacle described by an obstacle-class style object.
func (m *Manager) CreateObstacle(position geom.Vec3, heading geom.Angle, desc *data.GameObjectInfo) (*Obstacle, error) {
	if err := m.checkDescriptor(desc, object.ClassObstacle); err != nil {
		return nil, m.creationFailed(object.ClassObstacle, err)
	}
	id, err := m.generateID(object.ClassObstacle)
	if err != nil {
		return nil, err
	}
	instance, handle, err := m.obstaclesPool.Create()
	if err != nil {
		return nil, m.creationFailed(object.ClassObstacle, err)
	}
	instance.init(m, instance, id, object.ClassObstacle, handle)
	instance.desc = desc

	m.register(instance)
	m.obstacles = append(m.obstacles, instance)

	instance.Spawn(position, heading)
	m.created(instance)
	return instance, nil
}

// CreateExplosion spawns an explosion.
func (m *Manager) CreateExplosion(position geom.Vec3) (*Explosion, error) {
	id, err := m.generateID(object.ClassExplosion)
	if err != nil {
		return nil, err
	}
	instance, handle, err := m.explosionsPool.Create()
	if err != nil {
		return nil, m.creationFailed(object.ClassExplosion, err)
	}
	instance.init(m, instance, id, object.ClassExplosion, handle)

	m.register(instance)
	m.explosions = append(m.explosions, instance)

	instance.Spawn(position)
	m.created(instance)
	return instance, nil
}

// CreateDecoration spawns a decoration described by a decoration-class style
// object; its life duration starts at the descriptor's value.
func (m *Manager) CreateDecoration(position geom.Vec3, heading geom.Angle, desc *data.GameObjectInfo) (*Decoration, error) {
	if err := m.checkDescriptor(desc, object.ClassDecoration); err != nil {
		return nil, m.creationFailed(object.ClassDecoration, err)
	}
	id, err := m.generateID(object.ClassDecoration)
	if err != nil {
		return nil, err
	}
	instance, handle, err := m.decorationsPool.Create()
	if err != nil {
		return nil, m.creationFailed(object.ClassDecoration, err)
	}
	instance.init(m, instance, id, object.ClassDecoration, handle)
	instance.desc = desc

	m.register(instance)
	m.decorations = append(m.decorations, instance)

	instance.Spawn(position, heading)
	instance.SetLifeDuration(desc.LifeDuration)
	m.created(instance)
	return instance, nil
}

// CreateFirstBlood spawns the style's first-blood decoration.
func (m *Manager) CreateFirstBlood(position geom.Vec3) (*Decoration, error) {
	if !m.style.IsLoaded() {
		return nil, m.creationFailed(object.ClassDecoration, ErrStyleNotLoaded)
	}
	return m.CreateDecoration(position, 0, m.style.Object(m.style.Effects.FirstBlood))
}

func (m *Manager) checkDescriptor(desc *data.GameObjectInfo, class object.Class) error {
	if !m.style.IsLoaded() {
		return ErrStyleNotLoaded
	}
	if desc == nil {
		return ErrNilDescriptor
	}
	if desc.Class != class {
		return fmt.Errorf("%w: %q is %s, want %s", ErrClassMismatch, desc.Name, desc.Class, class)
	}
	return nil
}

func (m *Manager) generateID(class object.Class) (object.ID, error) {
	id, err := m.ids.Next()
	if err != nil {
		m.log.Error("object id space exhausted", zap.Stringer("class", class), zap.Uint32("last_id", uint32(m.ids.Last())))
		event.Emit(m.bus, event.CreationFailed{Class: class, Err: err})
		return object.NullID, fmt.Errorf("create %s: %w", class, err)
	}
	return id, nil
}

func (m *Manager) creationFailed(class object.Class, err error) error {
	m.log.Warn("cannot create game object", zap.Stringer("class", class), zap.Error(err))
	event.Emit(m.bus, event.CreationFailed{Class: class, Err: err})
	return fmt.Errorf("create %s: %w", class, err)
}

func (m *Manager) register(obj GameObject) {
	m.allObjects = append(m.allObjects, obj)
}

func (m *Manager) created(obj GameObject) {
	event.Emit(m.bus, event.ObjectCreated{ID: obj.ID(), Class: obj.Class(), Position: obj.Position()})
}

// --- Lookup ---

// findObject returns the registered object with id unless it is marked for
// deletion; marked objects are invisible to lookups until destroyed.
func (m *Manager) findObject(id object.ID) GameObject {
	if id.IsNull() {
		return nil
	}
	for _, obj := range m.allObjects {
		if obj.ID() != id {
			continue
		}
		if obj.IsMarkedForDeletion() {
			return nil
		}
		return obj
	}
	return nil
}

// GetGameObjectByID returns the live object with id, or nil.
func (m *Manager) GetGameObjectByID(id object.ID) GameObject {
	return m.findObject(id)
}

// GetPedestrianByID returns the live pedestrian with id, or nil.
func (m *Manager) GetPedestrianByID(id object.ID) *Pedestrian {
	p, _ := m.findObject(id).(*Pedestrian)
	return p
}

// GetVehicleByID returns the live vehicle with id, or nil.
func (m *Manager) GetVehicleByID(id object.ID) *Vehicle {
	v, _ := m.findObject(id).(*Vehicle)
	return v
}

// GetProjectileByID returns the live projectile with id, or nil.
func (m *Manager) GetProjectileByID(id object.ID) *Projectile {
	p, _ := m.findObject(id).(*Projectile)
	return p
}

// GetDecorationByID returns the live decoration with id, or nil.
func (m *Manager) GetDecorationByID(id object.ID) *Decoration {
	d, _ := m.findObject(id).(*Decoration)
	return d
}

// GetObstacleByID returns the live obstacle with id, or nil.
func (m *Manager) GetObstacleByID(id object.ID) *Obstacle {
	o, _ := m.findObject(id).(*Obstacle)
	return o
}

// GetExplosionByID returns the live explosion with id, or nil.
func (m *Manager) GetExplosionByID(id object.ID) *Explosion {
	e, _ := m.findObject(id).(*Explosion)
	return e
}

// AllObjects returns a copy of the registered objects in creation order,
// including ones marked for deletion but not yet destroyed.
func (m *Manager) AllObjects() []GameObject { return slices.Clone(m.allObjects) }

func (m *Manager) Pedestrians() []*Pedestrian { return slices.Clone(m.pedestrians) }
func (m *Manager) Vehicles() []*Vehicle       { return slices.Clone(m.vehicles) }
func (m *Manager) Projectiles() []*Projectile { return slices.Clone(m.projectiles) }
func (m *Manager) Decorations() []*Decoration { return slices.Clone(m.decorations) }
func (m *Manager) Obstacles() []*Obstacle     { return slices.Clone(m.obstacles) }
func (m *Manager) Explosions() []*Explosion   { return slices.Clone(m.explosions) }

// ObjectCount returns the number of registered objects.
func (m *Manager) ObjectCount() int { return len(m.allObjects) }

// PendingDeletionCount returns the number of objects waiting for the next flush.
func (m *Manager) PendingDeletionCount() int { return len(m.deleteObjects) }

// PoolOccupancy returns the number of live instances in the pool for class.
func (m *Manager) PoolOccupancy(class object.Class) int {
	switch class {
	case object.ClassPedestrian:
		return m.pedestriansPool.Len()
	case object.ClassVehicle:
		return m.vehiclesPool.Len()
	case object.ClassProjectile:
		return m.projectilesPool.Len()
	case object.ClassDecoration:
		return m.decorationsPool.Len()
	case object.ClassObstacle:
		return m.obstaclesPool.Len()
	case object.ClassExplosion:
		return m.explosionsPool.Len()
	}
	return 0
}

// Stats returns a population snapshot.
func (m *Manager) Stats() Stats {
	s := Stats{
		Live: map[object.Class]int{
			object.ClassPedestrian: len(m.pedestrians),
			object.ClassVehicle:    len(m.vehicles),
			object.ClassProjectile: len(m.projectiles),
			object.ClassDecoration: len(m.decorations),
			object.ClassObstacle:   len(m.obstacles),
			object.ClassExplosion:  len(m.explosions),
		},
		Pooled:          make(map[object.Class]int, len(object.PooledClasses)),
		PendingDeletion: len(m.deleteObjects),
		Total:           len(m.allObjects),
	}
	for _, c := range object.PooledClasses {
		s.Pooled[c] = m.PoolOccupancy(c)
	}
	return s
}

// --- Deletion ---

// MarkForDeletion queues obj for destruction at the next flush point.
// Marking an already marked object does nothing. References to objects that
// were already destroyed, or that belong to another registry, are ignored.
func (m *Manager) MarkForDeletion(obj GameObject) {
	if obj == nil {
		return
	}
	b := obj.base()
	if b.manager != m {
		m.log.Warn("ignoring deletion mark of unregistered object", zap.Uint32("id", uint32(b.id)))
		return
	}
	if b.marked {
		return
	}
	m.deleteObjects = append(m.deleteObjects, obj)
	b.marked = true
	event.Emit(m.bus, event.ObjectMarked{ID: b.id, Class: b.class})
}

// DestroyGameObject removes obj from every registry list and returns it to
// its pool. The object's teardown may create new objects.
func (m *Manager) DestroyGameObject(obj GameObject) error {
	if obj == nil {
		return fmt.Errorf("destroy nil object: %w", ErrNotRegistered)
	}
	b := obj.base()
	if b.manager != m {
		return fmt.Errorf("destroy object %d: %w", b.id, ErrNotRegistered)
	}
	idx := slices.Index(m.allObjects, obj)
	if idx < 0 {
		return fmt.Errorf("destroy object %d: %w", b.id, ErrNotRegistered)
	}

	id, class := b.id, b.class
	m.deleteObjects = eraseElement(m.deleteObjects, obj)
	m.allObjects = slices.Delete(m.allObjects, idx, idx+1)

	if err := obj.release(m); err != nil {
		m.log.Error("release game object", zap.Uint32("id", uint32(id)), zap.Stringer("class", class), zap.Error(err))
		return fmt.Errorf("destroy %s %d: %w", class, id, err)
	}
	event.Emit(m.bus, event.ObjectDestroyed{ID: id, Class: class})
	return nil
}

// DestroyAllObjects destroys every registered object, including objects
// created by teardown side effects while draining.
func (m *Manager) DestroyAllObjects() error {
	return m.drain(&m.allObjects, "all objects")
}

// DestroyMarkedForDeletionObjects destroys every object marked for deletion.
// This is the per-frame flush point.
func (m *Manager) DestroyMarkedForDeletionObjects() error {
	return m.drain(&m.deleteObjects, "marked objects")
}

// drain destroys the head of list until it is empty. The head is re-read on
// every iteration because teardown may add or remove entries; the iteration
// budget catches teardown chains that never settle.
func (m *Manager) drain(list *[]GameObject, what string) error {
	budget := len(*list) + m.maxTeardownChain
	for len(*list) > 0 {
		if budget == 0 {
			m.log.Error("teardown chain did not settle",
				zap.String("list", what),
				zap.Int("remaining", len(*list)),
				zap.Int("max_chain", m.maxTeardownChain))
			return fmt.Errorf("destroy %s: %w", what, ErrTeardownRunaway)
		}
		budget--
		head := (*list)[0]
		if err := m.DestroyGameObject(head); err != nil {
			if !errors.Is(err, ErrNotRegistered) {
				return err
			}
			// never let a stale entry block the queue
			m.log.Warn("dropping unregistered object from teardown queue", zap.String("list", what), zap.Error(err))
			*list = eraseElement(*list, head)
		}
	}
	return nil
}

// Shutdown destroys every object and then releases whatever the pools
// still hold. The registry must not be used afterwards.
func (m *Manager) Shutdown() error {
	err := m.DestroyAllObjects()
	m.closing = true
	leaked := m.pedestriansPool.Cleanup() +
		m.vehiclesPool.Cleanup() +
		m.projectilesPool.Cleanup() +
		m.decorationsPool.Cleanup() +
		m.obstaclesPool.Cleanup() +
		m.explosionsPool.Cleanup()
	if leaked > 0 {
		m.log.Warn("pools held unregistered objects at shutdown", zap.Int("count", leaked))
	}
	m.allObjects = m.allObjects[:0]
	m.deleteObjects = m.deleteObjects[:0]
	m.pedestrians = nil
	m.vehicles = nil
	m.projectiles = nil
	m.decorations = nil
	m.obstacles = nil
	m.explosions = nil
	return err
}

// eraseElement removes every occurrence of v, preserving order.
func eraseElement[T comparable](s []T, v T) []T {
	return slices.DeleteFunc(s, func(e T) bool { return e == v })
}
