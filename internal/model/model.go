// Package model holds the GORM entities of both services.
package model

// ArenaTables lists the Snake Arena entities in migration order.
func ArenaTables() []interface{} {
	return []interface{}{
		&User{},
		&LeaderboardEntry{},
		&GameSession{},
	}
}

// TodoTables lists the TODO service entities.
func TodoTables() []interface{} {
	return []interface{}{
		&Todo{},
	}
}
