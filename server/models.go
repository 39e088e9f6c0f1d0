package main

// Team is the authenticated identity embedded in responses and tokens.
type Team struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Discord  string `json:"discord" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Discord         string `json:"discord" binding:"required"`
	Password        string `json:"password"`
	CurrentPassword string `json:"currentPassword" binding:"required"`
}
