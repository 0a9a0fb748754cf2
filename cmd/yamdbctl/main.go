// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command yamdbctl is the operator CLI: schema migrations and CSV seeding.
//
//	yamdbctl migrate up
//	yamdbctl import --dir static/data
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
