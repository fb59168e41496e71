package reservation

import "github.com/yeremiapane/table-reservation/models"

var validTransitions = map[models.TableStatus][]models.TableStatus{
	models.TableAvailable: {models.TableReserved, models.TableOccupied},
	models.TableReserved:  {models.TableOccupied, models.TableAvailable},
	models.TableOccupied:  {models.TableAvailable},
}

// ValidateTransition reports whether a table may move from one status to
// another. Staying put and going back to available are always allowed.
func ValidateTransition(from, to models.TableStatus) bool {
	if from == to || to == models.TableAvailable {
		return true
	}
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
