// Clipbot turns a YouTube link into a short captioned clip and
// delivers it to a Telegram chat.
//
// Usage:
//
//	clipbot <youtube-url> <chat-id>
//
// The URL and chat may also be supplied through CLIPBOT_VIDEO_URL and
// CLIPBOT_CHAT_ID. One invocation processes one video: clipbot
// extracts the video identifier, fetches the transcript, picks a
// roughly 40-second window at random, downloads the source media with
// yt-dlp, burns a caption in with ffmpeg, and uploads the result
// through the Telegram Bot API.
//
// Configuration is loaded from environment variables, then a config
// file (clipbot.json or ~/.config/clipbot/clipbot.json), then
// defaults. A .env file in the working directory is honored.
//
// Required environment:
//
//   - TELEGRAM_BOT_TOKEN: bot credential for delivery
//
// Optional environment:
//
//   - HF_TOKEN: enables the transcript analysis call
//   - YOUTUBE_API_KEY: enables video title lookups for status messages
//   - CLIPBOT_YTDLP_PATH, CLIPBOT_FFMPEG_PATH, CLIPBOT_FFPROBE_PATH
//   - CLIPBOT_WORK_DIR: parent directory for per-run scratch space
//   - CLIPBOT_DOWNLOAD_TIMEOUT, CLIPBOT_TEXT_TIMEOUT, CLIPBOT_MEDIA_TIMEOUT
//   - CLIPBOT_LOG_LEVEL: trace, debug, info, warn, or error
//
// clipbot requires yt-dlp, ffmpeg, and ffprobe to be installed.
package main
