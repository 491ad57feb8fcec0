// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import "context"

// # Settings Data Access

// Repository defines the persistence contract for the access settings document.
type Repository interface {

	/*
		Get loads the stored settings.

		Parameters:
		  - context: context.Context

		Returns:
		  - Settings: Decoded document
		  - bool: false when no document has been stored yet
		  - error: Database or decoding failures
	*/
	Get(context context.Context) (Settings, bool, error)

	/*
		Put replaces the stored settings.

		Parameters:
		  - context: context.Context
		  - settings: Settings

		Returns:
		  - bool: true when no document existed before
		  - error: Database failures
	*/
	Put(context context.Context, settings Settings) (bool, error)
}
