package model

import (
	usermodel "music-hub/pkg/core/user/model"
)

// 请求/响应数据结构
type (
	LoginRes struct {
		AccessToken string         `json:"access_token"`
		TokenType   string         `json:"token_type"`
		Usuario     usermodel.User `json:"usuario"`
	}

	MasterTokenRes struct {
		MasterToken string `json:"master_token"`
	}

	MessageRes struct {
		Message string `json:"message"`
	}

	ErrorRes struct {
		Error   string      `json:"error"`
		Details interface{} `json:"details,omitempty"`
	}
)

const TokenTypeBearer = "Bearer"
