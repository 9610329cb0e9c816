// package repositories provides the SQLite persistence layer.
//
// The only persisted state is the OAuth credential cache ([TokenRepository]); playback history is
// never stored. The schema is created by [shared.RunMigrations].
package repositories
