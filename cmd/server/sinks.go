package main

import (
	"errors"

	"voxelworld.ai/internal/sim/world/terrain/store"
)

// multiSink fans chunk events out to every sink, joining their errors.
type multiSink []store.EventSink

func (m multiSink) WriteEvent(ev store.Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.WriteEvent(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
