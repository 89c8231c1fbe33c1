package board

import (
	"image/color"
	"runtime"
	"sync"
)

// mapBands splits the board into fixed size bands and maps them across a
// pool of goroutines. The error from the earliest failing band is returned
// so the result doesn't depend on scheduling.
func mapBands(dst, src []byte, width int, colors []color.NRGBA) error {
	bands := (len(src) + bandPixels - 1) / bandPixels
	if bands <= 1 {
		return mapPixels(dst, src, 0, width, colors)
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > bands {
		workers = bands
	}

	in := make(chan int)
	errs := make([]error, bands)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for band := range in {
				start := band * bandPixels
				end := min(start+bandPixels, len(src))
				errs[band] = mapPixels(dst[start*bytesPerPixel:end*bytesPerPixel], src[start:end], start, width, colors)
			}
		}()
	}

	for band := 0; band < bands; band++ {
		in <- band
	}
	close(in)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
