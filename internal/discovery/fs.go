// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package discovery

import "github.com/spf13/afero"

// FsFactory returns the filesystem walked by new Locators.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}
