package main

import (
	"context"
	"errors"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/xyz"
)

type converter struct {
	logger  *log.Logger
	workers int
}

func (m *converter) decodeFile(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	img, err := xyz.Decode(f)
	if err != nil {
		return err
	}

	target := strings.TrimSuffix(file, filepath.Ext(file)) + ".png"

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return err
	}

	m.logger.Printf("%s -> %s\n", file, target)

	return nil
}

func (m *converter) encodeFile(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return err
	}

	target := strings.TrimSuffix(file, filepath.Ext(file)) + ".xyz"

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := xyz.EncodeImage(out, img); err != nil {
		return err
	}

	m.logger.Printf("%s -> %s\n", file, target)

	return nil
}

func (m *converter) findFiles(ctx context.Context, files []string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, file := range files {
			select {
			case out <- file:
			case <-ctx.Done():
				errc <- errors.New("conversion cancelled")
				return
			}
		}
	}()
	return out, errc, nil
}

func (m *converter) fileWorker(ctx context.Context, in <-chan string, fn func(string) error) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if err := fn(file); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func (m *converter) convert(files []string, fn func(string) error) error {
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	in, errc, err := m.findFiles(ctx, files)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < m.workers; i++ {
		errc, err := m.fileWorker(ctx, in, fn)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
