// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

// FileSender stores each message as a separate file under dir.
type FileSender struct {
	dir     string
	now     func() time.Time
	counter atomic.Uint64
}

// NewFileSender creates dir if needed and returns a sender writing into it.
func NewFileSender(dir string) (*FileSender, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("mail: failed to create %s: %w", dir, err)
	}
	return &FileSender{dir: dir, now: time.Now}, nil
}

// Send writes the message to <dir>/<timestamp>-<pid>-<seq>.eml.
func (sender *FileSender) Send(ctx context.Context, message Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sentAt := sender.now()
	msg, err := compose(message, sentAt)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("%s-%d-%d.eml", sentAt.Format("20060102-150405"), os.Getpid(), sender.counter.Add(1))
	file, err := os.OpenFile(filepath.Join(sender.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return fmt.Errorf("mail: failed to create message file: %w", err)
	}

	if _, err := msg.WriteTo(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("mail: failed to write message: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("mail: failed to write message: %w", err)
	}
	return nil
}
