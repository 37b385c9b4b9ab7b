// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

package topology

import "github.com/ContinuousC/JaegerDiscovery/internal/esquery"

// StringProperty wraps a single string-valued attribute the way the
// downstream relation-graph service expects: {"string": "<value>"}.
type StringProperty struct {
	String string `json:"string"`
}

// NewStringProperty returns a populated StringProperty.
func NewStringProperty(s string) *StringProperty {
	return &StringProperty{String: s}
}

// ServiceMeta is an open record of optional string-valued attributes
// derived from a span's process tags. Every field round-trips through
// JSON under its stable "jaeger/<attribute>" name; unset fields are
// omitted entirely. The same type backs both the persisted per-service
// state and the materialized service item's properties.
type ServiceMeta struct {
	ServiceVersion        *StringProperty `json:"jaeger/service_version,omitempty"`
	DeploymentEnvironment *StringProperty `json:"jaeger/deployment_environment,omitempty"`

	K8sClusterName      *StringProperty `json:"jaeger/k8s_cluster_name,omitempty"`
	K8sClusterUID       *StringProperty `json:"jaeger/k8s_cluster_uid,omitempty"`
	K8sNodeName         *StringProperty `json:"jaeger/k8s_node_name,omitempty"`
	K8sNodeUID          *StringProperty `json:"jaeger/k8s_node_uid,omitempty"`
	K8sNamespaceName    *StringProperty `json:"jaeger/k8s_namespace_name,omitempty"`
	K8sPodName          *StringProperty `json:"jaeger/k8s_pod_name,omitempty"`
	K8sPodUID           *StringProperty `json:"jaeger/k8s_pod_uid,omitempty"`
	K8sContainerName    *StringProperty `json:"jaeger/k8s_container_name,omitempty"`
	K8sReplicaSetName   *StringProperty `json:"jaeger/k8s_replicaset_name,omitempty"`
	K8sReplicaSetUID    *StringProperty `json:"jaeger/k8s_replicaset_uid,omitempty"`
	K8sDeploymentName   *StringProperty `json:"jaeger/k8s_deployment_name,omitempty"`
	K8sDeploymentUID    *StringProperty `json:"jaeger/k8s_deployment_uid,omitempty"`
	K8sStatefulSetName  *StringProperty `json:"jaeger/k8s_statefulset_name,omitempty"`
	K8sStatefulSetUID   *StringProperty `json:"jaeger/k8s_statefulset_uid,omitempty"`
	K8sDaemonSetName    *StringProperty `json:"jaeger/k8s_daemonset_name,omitempty"`
	K8sDaemonSetUID     *StringProperty `json:"jaeger/k8s_daemonset_uid,omitempty"`
	K8sJobName          *StringProperty `json:"jaeger/k8s_job_name,omitempty"`
	K8sJobUID           *StringProperty `json:"jaeger/k8s_job_uid,omitempty"`
	K8sCronJobName      *StringProperty `json:"jaeger/k8s_cronjob_name,omitempty"`
	K8sCronJobUID       *StringProperty `json:"jaeger/k8s_cronjob_uid,omitempty"`
}

// fields returns every meta field keyed by its stable "jaeger/<attr>"
// name, including unset (nil) ones, for the materializer to filter.
func (m ServiceMeta) fields() map[string]*StringProperty {
	return map[string]*StringProperty{
		"jaeger/service_version":        m.ServiceVersion,
		"jaeger/deployment_environment": m.DeploymentEnvironment,
		"jaeger/k8s_cluster_name":       m.K8sClusterName,
		"jaeger/k8s_cluster_uid":        m.K8sClusterUID,
		"jaeger/k8s_node_name":          m.K8sNodeName,
		"jaeger/k8s_node_uid":           m.K8sNodeUID,
		"jaeger/k8s_namespace_name":     m.K8sNamespaceName,
		"jaeger/k8s_pod_name":           m.K8sPodName,
		"jaeger/k8s_pod_uid":            m.K8sPodUID,
		"jaeger/k8s_container_name":     m.K8sContainerName,
		"jaeger/k8s_replicaset_name":    m.K8sReplicaSetName,
		"jaeger/k8s_replicaset_uid":     m.K8sReplicaSetUID,
		"jaeger/k8s_deployment_name":    m.K8sDeploymentName,
		"jaeger/k8s_deployment_uid":     m.K8sDeploymentUID,
		"jaeger/k8s_statefulset_name":   m.K8sStatefulSetName,
		"jaeger/k8s_statefulset_uid":    m.K8sStatefulSetUID,
		"jaeger/k8s_daemonset_name":     m.K8sDaemonSetName,
		"jaeger/k8s_daemonset_uid":      m.K8sDaemonSetUID,
		"jaeger/k8s_job_name":           m.K8sJobName,
		"jaeger/k8s_job_uid":            m.K8sJobUID,
		"jaeger/k8s_cronjob_name":       m.K8sCronJobName,
		"jaeger/k8s_cronjob_uid":        m.K8sCronJobUID,
	}
}

// serviceMetaFromTags extracts the recognized string-valued process tags
// into a ServiceMeta. Non-string values and unrecognized keys are
// dropped.
func serviceMetaFromTags(tags []esquery.Tag) ServiceMeta {
	var meta ServiceMeta
	for _, tag := range tags {
		s, ok := tag.Value.StringValue()
		if !ok {
			continue
		}
		switch tag.Key {
		case "service.version":
			meta.ServiceVersion = NewStringProperty(s)
		case "deployment.environment":
			meta.DeploymentEnvironment = NewStringProperty(s)
		case "k8s.cluster.name":
			meta.K8sClusterName = NewStringProperty(s)
		case "k8s.cluster.uid":
			meta.K8sClusterUID = NewStringProperty(s)
		case "k8s.node.name":
			meta.K8sNodeName = NewStringProperty(s)
		case "k8s.node.uid":
			meta.K8sNodeUID = NewStringProperty(s)
		case "k8s.namespace.name":
			meta.K8sNamespaceName = NewStringProperty(s)
		case "k8s.pod.name":
			meta.K8sPodName = NewStringProperty(s)
		case "k8s.pod.uid":
			meta.K8sPodUID = NewStringProperty(s)
		case "k8s.container.name":
			meta.K8sContainerName = NewStringProperty(s)
		case "k8s.replicaset.name":
			meta.K8sReplicaSetName = NewStringProperty(s)
		case "k8s.replicaset.uid":
			meta.K8sReplicaSetUID = NewStringProperty(s)
		case "k8s.deployment.name":
			meta.K8sDeploymentName = NewStringProperty(s)
		case "k8s.deployment.uid":
			meta.K8sDeploymentUID = NewStringProperty(s)
		case "k8s.statefulset.name":
			meta.K8sStatefulSetName = NewStringProperty(s)
		case "k8s.statefulset.uid":
			meta.K8sStatefulSetUID = NewStringProperty(s)
		case "k8s.daemonset.name":
			meta.K8sDaemonSetName = NewStringProperty(s)
		case "k8s.daemonset.uid":
			meta.K8sDaemonSetUID = NewStringProperty(s)
		case "k8s.job.name":
			meta.K8sJobName = NewStringProperty(s)
		case "k8s.job.uid":
			meta.K8sJobUID = NewStringProperty(s)
		case "k8s.cronjob.name":
			meta.K8sCronJobName = NewStringProperty(s)
		case "k8s.cronjob.uid":
			meta.K8sCronJobUID = NewStringProperty(s)
		}
	}
	return meta
}

// serviceKeyFromProcess resolves the ServiceKey for a span's process
// block: name is mandatory, namespace and instance-id come from the
// first matching string-valued tag of that key.
func serviceKeyFromProcess(p esquery.Process) ServiceKey {
	var namespace, instanceID string
	for _, tag := range p.Tags {
		if namespace == "" && tag.Key == "service.namespace" {
			if s, ok := tag.Value.StringValue(); ok {
				namespace = s
			}
		}
		if instanceID == "" && tag.Key == "service.instance.id" {
			if s, ok := tag.Value.StringValue(); ok {
				instanceID = s
			}
		}
	}
	return NewServiceKey(namespace, string(p.ServiceName), instanceID)
}
