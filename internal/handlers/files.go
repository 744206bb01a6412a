package handlers

import (
	"net/http"

	"concord-backend/internal/fileHandlers"
)

// UploadFile stores an attachment and hands back the URL to put into a
// message's fileUrl.
func UploadFile(w http.ResponseWriter, r *http.Request) {
	fileURL, err := fileHandlers.SaveAttachment(r)
	if err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	respondJSON(w, map[string]string{"fileUrl": fileURL})
}
