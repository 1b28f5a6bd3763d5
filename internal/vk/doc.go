// Package vk fetches posts from the MeowAfisha public VK wall and turns
// them into events.
//
// The primary path is the wall.get API (token required, paginated, retried
// with exponential backoff). A goquery scraper over the public mobile wall
// page serves as a tokenless fallback. Post texts are parsed with the
// feed's posting conventions: a "DD.MM |" date prefix on the title line and
// a 📍 location marker, with the city appended when the line names no known
// region town.
package vk
