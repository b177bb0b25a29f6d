// Package services implements metadata lookup and link handling for YouTube videos.
//
// # Identifier extraction
//
// [ExtractVideoID] recognizes the common YouTube link shapes (watch, youtu.be,
// embed, /v/, shorts, live, mobile subdomains) and pulls out the 11-character
// video identifier. Input that matches no shape yields no identifier, which is
// a user-facing invalid-link condition rather than an error.
//
// # URL derivation
//
// Thumbnail, watch and embed URLs are pure functions of the video ID
// ([ThumbnailURL], [WatchURL], [EmbedURL]). They are regenerated wherever a
// track is reconstructed, so shared links only carry the ID.
//
// # Metadata lookup
//
// [OEmbedService] fetches title and author for a video via the public YouTube
// oEmbed endpoint. Lookups are rate limited and use an injectable
// [http.Client] for testing.
//
// # Thumbnail fallback
//
// YouTube does not publish every resolution for every video.
// [OEmbedService.ResolveThumbnail] walks the resolution ladder from maxres
// down to default and returns the first variant that answers, so callers never
// render a broken image.
package services
