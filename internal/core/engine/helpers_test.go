package engine

import (
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/domain"
)

var planStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newPlan(totalWeeks int) *domain.User {
	u, err := domain.NewUser("user-1", "Test User", planStart, totalWeeks, planStart)
	if err != nil {
		panic(err)
	}
	return u
}

// weeks builds a completed history from the indices that should be true.
func weeks(size int, done ...int) []bool {
	out := make([]bool, size)
	for _, w := range done {
		out[w] = true
	}
	return out
}

func activity(id string, completed []bool) domain.Activity {
	return domain.Activity{ID: id, Name: "Activity " + id, Completed: completed}
}

func addGoal(u *domain.User, category domain.CategoryType, id string, activities ...domain.Activity) {
	g := domain.Goal{ID: id, Name: "Goal " + id, Activities: activities}
	if err := u.AddGoal(category, g); err != nil {
		panic(err)
	}
}

func addEmptyGoals(u *domain.User, n int) {
	cats := domain.AllCategories()
	for i := 0; i < n; i++ {
		addGoal(u, cats[i%len(cats)], fmt.Sprintf("g%d", i))
	}
}
