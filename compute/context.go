package compute

import (
	"github.com/gomlx/devinfo/info"
	"github.com/gomlx/exceptions"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Context is a handle to a set of devices of one platform, shared by the queues created on it.
//
// Handles are small values: copies alias the same context, and compare equal.
type Context struct {
	c *contextObject
}

var _ info.Handle = Context{}

// NewContext creates a context with the given devices, which must all belong to the same platform.
func NewContext(devices ...Device) (Context, error) {
	if len(devices) == 0 {
		return Context{}, errors.New("compute.NewContext requires at least one device")
	}
	platform := devices[0].object().platform
	for idx, d := range devices {
		if d.object().platform != platform {
			return Context{}, errors.Errorf("compute.NewContext: device #%d (%s) is not on the platform of device #0 (%s)",
				idx, d, devices[0])
		}
	}
	obj := &contextObject{
		id:       uuid.New(),
		platform: platform,
		devices:  append(DeviceList(nil), devices...),
	}
	obj.refs.init()
	klog.V(1).Infof("created context %s with %d device(s) on %s", obj.id, len(devices), Platform{platform})
	return Context{obj}, nil
}

// IsValid returns false for the zero Context.
func (c Context) IsValid() bool { return c.c != nil }

func (c Context) object() *contextObject {
	if c.c == nil {
		exceptions.Panicf("compute.Context used before being initialized")
	}
	return c.c
}

// ID uniquely identifies the context, e.g. in logs.
func (c Context) ID() uuid.UUID { return c.object().id }

// Kind implements info.Handle.
func (c Context) Kind() info.OwnerKind { return info.OwnerContext }

// IsHost returns whether the context is on the host platform.
func (c Context) IsHost() bool { return c.object().platform.isHost }

// BackendName implements info.Handle.
func (c Context) BackendName() string { return c.object().platform.api }

// String implements fmt.Stringer.
func (c Context) String() string { return info.HandleLabel(c) }

// Platform of the context.
func (c Context) Platform() Platform { return Platform{c.object().platform} }

// Devices of the context.
func (c Context) Devices() DeviceList { return append(DeviceList(nil), c.object().devices...) }

// Retain increments the reference count of the context, and returns an alias to it.
func (c Context) Retain() Context {
	c.object().refs.retain()
	return c
}

// Release decrements the reference count of the context.
func (c Context) Release() {
	obj := c.object()
	if obj.refs.release(info.OwnerContext) == 0 {
		klog.V(1).Infof("context %s released", obj.id)
	}
}

// Queue is a handle to a command queue: it ties one device to one context. It doesn't own either.
type Queue struct {
	q *queueObject
}

var _ info.Handle = Queue{}

// NewQueue creates a queue for the device, which must be one of the devices of the context.
func NewQueue(ctx Context, dev Device) (Queue, error) {
	if !ctx.object().devices.Contains(dev) {
		return Queue{}, errors.Errorf("compute.NewQueue: %s is not a device of context %s", dev, ctx.ID())
	}
	obj := &queueObject{device: dev, context: ctx}
	obj.refs.init()
	return Queue{obj}, nil
}

// IsValid returns false for the zero Queue.
func (q Queue) IsValid() bool { return q.q != nil }

func (q Queue) object() *queueObject {
	if q.q == nil {
		exceptions.Panicf("compute.Queue used before being initialized")
	}
	return q.q
}

// Kind implements info.Handle.
func (q Queue) Kind() info.OwnerKind { return info.OwnerQueue }

// IsHost returns whether the queue is on the host device.
func (q Queue) IsHost() bool { return q.object().device.IsHost() }

// BackendName implements info.Handle.
func (q Queue) BackendName() string { return q.object().device.BackendName() }

// String implements fmt.Stringer.
func (q Queue) String() string { return info.HandleLabel(q) }

// Device of the queue.
func (q Queue) Device() Device { return q.object().device }

// Context of the queue.
func (q Queue) Context() Context { return q.object().context }

// Retain increments the reference count of the queue, and returns an alias to it.
func (q Queue) Retain() Queue {
	q.object().refs.retain()
	return q
}

// Release decrements the reference count of the queue.
func (q Queue) Release() { q.object().refs.release(info.OwnerQueue) }
