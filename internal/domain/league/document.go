package league

import "time"

// Document renders the league in its stored document shape. Stores that keep
// typed records use it to answer GetDocument.
func Document(l League) map[string]any {
	return map[string]any{
		"_id":       l.ID,
		"slug":      l.Slug,
		"name":      l.Name,
		"cityId":    l.CityID,
		"season":    l.Season,
		"level":     l.Level,
		"status":    string(l.Status),
		"createdAt": l.CreatedAt,
		"updatedAt": l.UpdatedAt,
		"seasonConfig": map[string]any{
			"registrationStart": optionalTime(l.SeasonConfig.RegistrationStart),
			"registrationEnd":   optionalTime(l.SeasonConfig.RegistrationEnd),
			"startDate":         optionalTime(l.SeasonConfig.StartDate),
			"endDate":           optionalTime(l.SeasonConfig.EndDate),
		},
	}
}

func optionalTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return *v
}
