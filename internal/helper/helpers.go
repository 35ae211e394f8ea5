package helper

import (
	"fmt"
	"sync"
)

type HelperRepository struct {
	baseUrl *string
	WG      *sync.WaitGroup
}

func New(baseUrl *string, wg *sync.WaitGroup) *HelperRepository {
	return &HelperRepository{
		baseUrl: baseUrl,
		WG:      wg,
	}
}

func (h *HelperRepository) NewEmailData() map[string]any {
	data := map[string]any{
		"BaseURL": h.baseUrl,
	}

	return data
}

// BackgroundTask runs fn in a goroutine with panic recovery, reporting the
// failure through report rather than crashing the caller.
func (h *HelperRepository) BackgroundTask(report func(error), fn func() error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if report != nil {
					report(fmt.Errorf("%s", r))
				}
			}
		}()

		if err := fn(); err != nil && report != nil {
			report(err)
		}
	}()
}
