// Package coaching holds the domain types shared by the coaching client
// components: conversation turns and their feedback, learner profiles,
// lessons and pronunciation drill data.
package coaching
