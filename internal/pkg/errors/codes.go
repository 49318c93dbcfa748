package errors

var (
	ErrConfiguration = New(
		"CONFIGURATION_ERROR",
		"Canonical SRID is not part of the entity's SRID set",
	)

	ErrConsolidationFailure = New(
		"CONSOLIDATION_FAILURE",
		"Failed to union duplicate geometry group",
	)

	ErrMissingCrosswalkEntry = New(
		"MISSING_CROSSWALK_ENTRY",
		"Stop has no crosswalk entry",
	)

	ErrUnresolvedLineReference = New(
		"UNRESOLVED_LINE_REFERENCE",
		"Crosswalk references a line that does not exist",
	)

	ErrLineNotFound = New(
		"LINE_NOT_FOUND",
		"Line not found",
	)

	ErrUnknownSRID = New(
		"UNKNOWN_SRID",
		"SRID is not part of the geometry set",
	)

	ErrReloadInProgress = New(
		"RELOAD_IN_PROGRESS",
		"Another reload is already running",
	)

	ErrImportError = New(
		"IMPORT_ERROR",
		"Failed to read source features",
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
	)
)
