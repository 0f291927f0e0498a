package repository

import (
	"context"

	"github.com/rogersnm/smoothies/internal/model"
)

type call struct {
	Store string
	Op    string
	Arg   any
}

// recorder collects calls from both fake stores in order.
type recorder struct {
	calls []call
	fail  map[string]error // keyed by "store.op"
}

func (r *recorder) record(storeName, op string, arg any) error {
	r.calls = append(r.calls, call{Store: storeName, Op: op, Arg: arg})
	return r.fail[storeName+"."+op]
}

func (r *recorder) failOn(key string, err error) {
	if r.fail == nil {
		r.fail = map[string]error{}
	}
	r.fail[key] = err
}

type fakePrimary struct {
	rec       *recorder
	smoothies []model.Smoothie
}

func (f *fakePrimary) Load(context.Context) ([]model.Smoothie, error) {
	if err := f.rec.record("primary", "load", nil); err != nil {
		return nil, err
	}
	return f.smoothies, nil
}

func (f *fakePrimary) Create(_ context.Context, s model.Smoothie) error {
	return f.rec.record("primary", "create", s)
}

func (f *fakePrimary) Update(_ context.Context, p model.Patch) error {
	return f.rec.record("primary", "update", p)
}

func (f *fakePrimary) Delete(_ context.Context, id string) error {
	return f.rec.record("primary", "delete", id)
}

type fakeSecondary struct {
	rec *recorder
}

func (f *fakeSecondary) Create(_ context.Context, s model.Smoothie) error {
	return f.rec.record("secondary", "create", s)
}

func (f *fakeSecondary) Update(_ context.Context, s model.Smoothie) error {
	return f.rec.record("secondary", "update", s)
}

func (f *fakeSecondary) Delete(_ context.Context, id string) error {
	return f.rec.record("secondary", "delete", id)
}
