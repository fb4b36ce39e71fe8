// Package timezone keeps every timestamp and calendar date in the zone set by
// APP_TIMEZONE (an IANA name such as "Europe/Moscow"; UTC when unset).
// Rental periods are compared as whole days, so DateOf and Today strip the
// clock in that zone rather than in UTC.
package timezone
