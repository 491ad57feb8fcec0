// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package member

import "context"

// # Member Data Access

// Repository defines the read-only data access contract for member data.
type Repository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Member: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Member, error)

	/*
		FindProfiles returns the profiles of one type owned by the user, oldest first.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - profileType: string

		Returns:
		  - []*Profile: Possibly empty slice
		  - error: Database retrieval failures
	*/
	FindProfiles(context context.Context, userID, profileType string) ([]*Profile, error)

	/*
		Attributes returns every named flag of the user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - map[string]string: Flag name to raw value
		  - error: Database retrieval failures
	*/
	Attributes(context context.Context, userID string) (map[string]string, error)

	/*
		Roles returns the account role plus every additional role of the user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []string: Role names, deduplicated
		  - error: Database retrieval failures
	*/
	Roles(context context.Context, userID string) ([]string, error)
}
