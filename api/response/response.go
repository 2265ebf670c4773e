package response

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse тело ответа на загрузку и удаление
type SuccessResponse struct {
	Success bool `json:"success"`
}

// DownloadRequest тело запроса на скачивание и удаление
type DownloadRequest struct {
	Filename string `json:"filename" example:"1718000000000-report.pdf"`
	PIN      string `json:"pin" example:"1234"`
}
