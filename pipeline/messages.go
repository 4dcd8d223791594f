package pipeline

import "fmt"

// User-visible status strings. These are the only texts that ever
// reach the chat; collaborator errors stay in the logs.
const (
	msgInvalidURL = "That doesn't look like a YouTube link I can work with. Send me a video URL and I'll clip it."

	msgNoTranscript = "I couldn't find a transcript for that video, so I can't pick a good moment. Try one with captions!"

	msgTranscriptFetched = "Found the transcript. Picking a good moment..."

	msgDownloadFailed = "I couldn't fetch that video. It might be private, removed, or region locked."

	msgAssemblyFailed = "Something went wrong while cutting the clip. Sorry about that, try another video?"

	msgUploading = "Clip is ready! Uploading it now..."

	msgDelivered = "Enjoy your clip!"

	msgDeliveryFailed = "I made your clip but couldn't upload it. The moment is lost to time."

	msgInternalError = "Something went wrong on my end. Please try again later."
)

// msgWorkingOn announces the run start, using the video title when
// metadata is available and the bare identifier otherwise.
func msgWorkingOn(title string) string {
	return fmt.Sprintf("Got it! Working on a clip from %q...", title)
}

// msgSelected announces the chosen window.
func msgSelected(seconds float64) string {
	return fmt.Sprintf("Picked a %.0f-second moment. Downloading the video...", seconds)
}
