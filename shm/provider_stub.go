//go:build !linux
// +build !linux

// File: shm/provider_stub.go
// Author: momentics <momentics@gmail.com>
//
// Non-Linux stub. SysV hugepage segments are Linux-only; reservations
// report ErrNotSupported so callers can select the fake provider instead.

package shm

import (
	"os"

	"github.com/momentics/hugealloc/api"
)

// Provider implements api.RegionProvider on platforms without SysV
// hugepage support.
type Provider struct{}

var _ api.RegionProvider = (*Provider)(nil)

// NewProvider returns the stub provider.
func NewProvider() *Provider { return &Provider{} }

func (p *Provider) Reserve(size, node int) (api.Segment, error) {
	return api.Segment{}, api.NewFatal("reserve", 0, api.ErrNotSupported)
}

func (p *Provider) Release(seg api.Segment) error {
	return api.NewFatal("release", seg.Key, api.ErrNotSupported)
}

func (p *Provider) Nodes() int        { return 1 }
func (p *Provider) HugepageSize() int { return fallbackHugepageSize }
func (p *Provider) PageSize() int     { return os.Getpagesize() }
