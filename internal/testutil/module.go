package testutil

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/evogrid/internal/module"
	"github.com/vk/evogrid/internal/trait"
)

// TraitOwner owns one numeric trait and keeps the locked layout so tests
// can build organisms carrying it.
type TraitOwner struct {
	module.Base
	Trait  string
	Init   trait.Init
	Layout *trait.Layout
}

func NewTraitOwner(name, traitName string) *TraitOwner {
	return &TraitOwner{Base: module.NewBase(name, "TraitOwner", "test trait owner"), Trait: traitName}
}

func (o *TraitOwner) SetupModule(module.Host) error {
	if info := o.AddOwnedTrait(o.Trait, "test value", cty.Number, cty.Zero); info != nil {
		info.SetInit(o.Init)
	}
	return nil
}

func (o *TraitOwner) SetupLayout(l *trait.Layout) error { o.Layout = l; return nil }

// Org builds a TagOrg whose trait holds v.
func (o *TraitOwner) Org(tag int, v float64) *TagOrg {
	org := NewTagOrg(tag, o.Layout.NewStore())
	if err := org.Traits().SetNamed(o.Trait, cty.NumberFloatVal(v)); err != nil {
		panic(err)
	}
	return org
}
