package request

import "context"

// Changes is a partial update keyed by semantic field name. The repository
// implementation owns the translation to wire field names and formats.
type Changes map[string]any

// Repository is the external collaborator holding the authoritative request
// records. Implementations must map their failures onto the apperror
// taxonomy: transport failures to TRANSPORT_ERROR, malformed payloads to
// FORMAT_ERROR, unknown IDs to NOT_FOUND, server-side rejections to
// VALIDATION_ERROR or CONFLICT.
type Repository interface {
	// List fetches all requests.
	List(ctx context.Context) ([]ServiceRequest, error)

	// Get fetches one request by ID, including its invoice lines.
	Get(ctx context.Context, id int) (*ServiceRequest, error)

	// Update applies a partial update to the request.
	Update(ctx context.Context, id int, changes Changes) error

	// Delete removes the request. Deleting is idempotent-safe on the server;
	// the store only amends its local list after a success.
	Delete(ctx context.Context, id int) error
}
