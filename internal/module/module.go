// Package module defines the contract between plugin modules and the
// controller, and the Base that plugins embed.
//
// A module subscribes to lifecycle signals by implementing the handler
// interfaces of package signal; Base records which ones at attach time. Base
// itself implements no handlers.
package module

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/evogrid/internal/equation"
	"github.com/vk/evogrid/internal/signal"
	"github.com/vk/evogrid/internal/trait"
)

// Module is a plugin instance owned by the controller.
type Module interface {
	signal.Subscriber
	Type() string
	Desc() string
	ModuleBase() *Base

	// SetupModule runs before the trait layout exists. Modules claim traits
	// and resolve populations here.
	SetupModule(h Host) error
	// SetupLayout runs once the layout is locked. Modules resolve trait ids
	// and compile equations here.
	SetupLayout(l *trait.Layout) error
}

// Base carries the bookkeeping every module needs.
type Base struct {
	name     string
	typ      string
	desc     string
	host     Host
	detected signal.Set
	hooks    signal.Set
	active   bool
}

// NewBase returns a Base for a module instance.
func NewBase(name, typ, desc string) Base {
	return Base{name: name, typ: typ, desc: desc, active: true}
}

func (b *Base) Name() string      { return b.name }
func (b *Base) Type() string      { return b.typ }
func (b *Base) Desc() string      { return b.desc }
func (b *Base) Hooks() signal.Set { return b.hooks }
func (b *Base) ModuleBase() *Base { return b }
func (b *Base) Host() Host        { return b.host }
func (b *Base) IsActive() bool    { return b.active }

// SetupModule does nothing by default.
func (b *Base) SetupModule(Host) error { return nil }

// SetupLayout does nothing by default.
func (b *Base) SetupLayout(*trait.Layout) error { return nil }

// Attach links m to its host and records the signals m handles.
func Attach(m Module, h Host) {
	b := m.ModuleBase()
	b.host = h
	b.detected = signal.Detect(m)
	if b.active {
		b.hooks = b.detected
	}
}

// Activate resubscribes every hook the module implements.
func (b *Base) Activate() {
	b.active = true
	b.hooks = b.detected
	b.rescan()
}

// Deactivate unsubscribes the module from every channel.
func (b *Base) Deactivate() {
	b.active = false
	b.hooks = 0
	b.rescan()
}

// DropHook unsubscribes a single channel until the next Activate.
func (b *Base) DropHook(e signal.Event) {
	b.hooks = b.hooks.Without(e)
	b.rescan()
}

func (b *Base) rescan() {
	if b.host != nil {
		b.host.RescanSignals()
	}
}

func (b *Base) addTrait(access trait.Access, name, desc string, typ cty.Type, def cty.Value) *trait.Info {
	if b.host == nil {
		panic(fmt.Sprintf("module %q: traits claimed before attach", b.name))
	}
	info, err := b.host.Traits().AddTrait(b.name, access, name, desc, typ, def)
	if err != nil {
		b.host.AddError("%s", err)
		return nil
	}
	return info
}

// AddPrivateTrait claims a trait no other module may touch.
func (b *Base) AddPrivateTrait(name, desc string, typ cty.Type, def cty.Value) *trait.Info {
	return b.addTrait(trait.Private, name, desc, typ, def)
}

// AddOwnedTrait claims a trait only this module writes; others may read it.
func (b *Base) AddOwnedTrait(name, desc string, typ cty.Type, def cty.Value) *trait.Info {
	return b.addTrait(trait.Owned, name, desc, typ, def)
}

// AddSharedTrait claims a trait several modules may write.
func (b *Base) AddSharedTrait(name, desc string, typ cty.Type, def cty.Value) *trait.Info {
	return b.addTrait(trait.Shared, name, desc, typ, def)
}

// AddGeneratedTrait claims a trait this module writes for others to read.
func (b *Base) AddGeneratedTrait(name, desc string, typ cty.Type, def cty.Value) *trait.Info {
	return b.addTrait(trait.Generated, name, desc, typ, def)
}

// AddRequiredTrait claims read access to a trait another module produces.
func (b *Base) AddRequiredTrait(name string, typ cty.Type) *trait.Info {
	return b.addTrait(trait.Required, name, "", typ, cty.NilVal)
}

// AddOptionalTrait claims read access to a trait that may not exist.
func (b *Base) AddOptionalTrait(name string, typ cty.Type) *trait.Info {
	return b.addTrait(trait.Optional, name, "", typ, cty.NilVal)
}

// AddRequiredEquation claims every trait src names as a REQUIRED number.
func (b *Base) AddRequiredEquation(src string) {
	names, err := equation.Names(src)
	if err != nil {
		b.host.AddError("module %q: %s", b.name, err)
		return
	}
	for _, name := range names {
		b.AddRequiredTrait(name, cty.Number)
	}
}
