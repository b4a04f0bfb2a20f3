package contact

import "github.com/example/contacts/internal/core/effects"

// EntityContact names the contact entity in persist effects.
const EntityContact = "contact"

// DeletePlanInput contains pre-fetched data for contact deletion.
type DeletePlanInput struct {
	ContactID          int64
	RecordExists       bool
	StoredPhotoPath    string // photo path of the stored record, if any
	RequestedPhotoPath string // photo path carried by the caller's contact
}

// DeletePlan represents the planned effects for deleting a contact.
// Database operations always run before filesystem operations.
type DeletePlan struct {
	ContactID     int64
	PhotoPath     string
	DatabaseOps   []effects.PersistEffect
	LogOps        []effects.LogEffect
	FilesystemOps []effects.FileEffect
}

// Effects returns all effects as a flat slice for execution.
func (p DeletePlan) Effects() []effects.Effect {
	result := make([]effects.Effect, 0, len(p.DatabaseOps)+len(p.LogOps)+len(p.FilesystemOps))
	for _, e := range p.DatabaseOps {
		result = append(result, e)
	}
	for _, e := range p.LogOps {
		result = append(result, e)
	}
	for _, e := range p.FilesystemOps {
		result = append(result, e)
	}
	return result
}

// PlanDelete plans the removal of a contact and its photo file.
// The stored photo path wins over the requested one; when the record is
// already gone the requested path is still cleaned up.
func PlanDelete(input DeletePlanInput) DeletePlan {
	plan := DeletePlan{ContactID: input.ContactID}

	if input.RecordExists {
		plan.DatabaseOps = append(plan.DatabaseOps, effects.PersistEffect{
			Entity:    EntityContact,
			Operation: "delete",
			Data:      input.ContactID,
		})
	}

	photo := input.RequestedPhotoPath
	if input.RecordExists && input.StoredPhotoPath != "" {
		photo = input.StoredPhotoPath
	}
	if !input.RecordExists {
		plan.LogOps = append(plan.LogOps, missingRecordLog(input.ContactID, photo))
	}
	if photo != "" {
		plan.PhotoPath = photo
		plan.FilesystemOps = append(plan.FilesystemOps, effects.FileEffect{
			Operation:  "remove",
			Path:       photo,
			BestEffort: true,
		})
	}

	return plan
}

func missingRecordLog(id int64, photo string) effects.LogEffect {
	if photo == "" {
		return effects.LogEffect{
			Level:   "debug",
			Message: "contact already gone, nothing to delete",
			Fields:  map[string]any{"contact_id": id},
		}
	}
	return effects.LogEffect{
		Level:   "info",
		Message: "contact already gone, removing requested photo",
		Fields:  map[string]any{"contact_id": id, "path": photo},
	}
}
