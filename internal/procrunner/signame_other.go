// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !unix

package procrunner

import "os"

func signalName(sig os.Signal) string {
	return sig.String()
}
